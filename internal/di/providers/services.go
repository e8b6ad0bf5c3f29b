package providers

import (
	"github.com/samber/do/v2"

	"github.com/linkloftapp/linkloft-server/internal/auth"
	"github.com/linkloftapp/linkloft-server/internal/logger"
	"github.com/linkloftapp/linkloft-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideBookmarkService provides the bookmark service.
func ProvideBookmarkService(i do.Injector) (*service.BookmarkService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookmarkService(storeHandle.Store, log.Logger), nil
}

// ProvideInviteService provides the invite code service.
func ProvideInviteService(i do.Injector) (*service.InviteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInviteService(storeHandle.Store, log.Logger), nil
}
