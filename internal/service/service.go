// Package service contains the application services that sit between the HTTP
// handlers and the store. Services validate input, enforce ownership, and
// translate store errors into domain errors.
package service

import (
	"github.com/linkloftapp/linkloft-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()
