package store

import (
	"errors"

	"github.com/linkloftapp/linkloft-server/internal/domain"
)

// ViewContext tags the five viewing situations the visibility model knows.
type ViewContext int

const (
	// ViewPublic is an anonymous viewer browsing the shared stream.
	ViewPublic ViewContext = iota
	// ViewAuthenticated is a logged-in viewer browsing the shared stream.
	ViewAuthenticated
	// ViewOwner is a user looking at their own bookmarks.
	ViewOwner
	// ViewProfilePublic is an anonymous viewer on someone else's profile.
	ViewProfilePublic
	// ViewProfileAuth is a logged-in viewer on someone else's profile.
	ViewProfileAuth
)

// ErrOwnerRequired is returned when a filter that scopes to an owner was
// constructed without one.
var ErrOwnerRequired = errors.New("visibility filter: owner id required for this context")

// VisibilityFilter is an ephemeral value describing which bookmarks a viewer
// may see. It compiles to a SQL predicate via Predicate; it is never
// persisted or shared across requests.
type VisibilityFilter struct {
	Context ViewContext
	OwnerID int64 // Required for Owner and Profile contexts
}

// ForAnonymous matches public bookmarks only.
func ForAnonymous() VisibilityFilter {
	return VisibilityFilter{Context: ViewPublic}
}

// ForAuthenticated matches public and authenticated-only bookmarks.
func ForAuthenticated() VisibilityFilter {
	return VisibilityFilter{Context: ViewAuthenticated}
}

// ForUser picks the stream filter for a viewer: authenticated when viewerID
// is set, anonymous otherwise.
func ForUser(viewerID int64) VisibilityFilter {
	if viewerID != 0 {
		return ForAuthenticated()
	}
	return ForAnonymous()
}

// ForOwner matches everything the owner has, regardless of visibility.
func ForOwner(ownerID int64) VisibilityFilter {
	return VisibilityFilter{Context: ViewOwner, OwnerID: ownerID}
}

// ForProfile picks the filter for viewing profileOwnerID's bookmarks.
// The owner sees everything; other viewers see the owner's public (and, when
// logged in, authenticated-only) bookmarks.
func ForProfile(profileOwnerID, viewerID int64) VisibilityFilter {
	if viewerID == profileOwnerID {
		return ForOwner(profileOwnerID)
	}
	ctx := ViewProfilePublic
	if viewerID != 0 {
		ctx = ViewProfileAuth
	}
	return VisibilityFilter{Context: ctx, OwnerID: profileOwnerID}
}

// Predicate compiles the filter to a SQL clause over the bookmarks table plus
// its bind arguments. Owner and Profile contexts fail with ErrOwnerRequired
// when no owner id was supplied.
func (f VisibilityFilter) Predicate() (string, []any, error) {
	switch f.Context {
	case ViewPublic:
		return "bookmarks.visibility = ?", []any{string(domain.VisibilityPublic)}, nil
	case ViewAuthenticated:
		return "bookmarks.visibility IN (?, ?)",
			[]any{string(domain.VisibilityPublic), string(domain.VisibilityAuthenticated)}, nil
	case ViewOwner:
		if f.OwnerID == 0 {
			return "", nil, ErrOwnerRequired
		}
		return "bookmarks.user_id = ?", []any{f.OwnerID}, nil
	case ViewProfilePublic:
		if f.OwnerID == 0 {
			return "", nil, ErrOwnerRequired
		}
		return "bookmarks.user_id = ? AND bookmarks.visibility = ?",
			[]any{f.OwnerID, string(domain.VisibilityPublic)}, nil
	case ViewProfileAuth:
		if f.OwnerID == 0 {
			return "", nil, ErrOwnerRequired
		}
		return "bookmarks.user_id = ? AND bookmarks.visibility IN (?, ?)",
			[]any{f.OwnerID, string(domain.VisibilityPublic), string(domain.VisibilityAuthenticated)}, nil
	}
	return "", nil, errors.New("visibility filter: unknown context")
}

// Matches applies the filter in-memory. Used by aggregation paths that have
// already loaded rows; must agree with Predicate.
func (f VisibilityFilter) Matches(b *domain.Bookmark) bool {
	switch f.Context {
	case ViewPublic:
		return b.Visibility == domain.VisibilityPublic
	case ViewAuthenticated:
		return b.Visibility == domain.VisibilityPublic || b.Visibility == domain.VisibilityAuthenticated
	case ViewOwner:
		return b.UserID == f.OwnerID
	case ViewProfilePublic:
		return b.UserID == f.OwnerID && b.Visibility == domain.VisibilityPublic
	case ViewProfileAuth:
		return b.UserID == f.OwnerID &&
			(b.Visibility == domain.VisibilityPublic || b.Visibility == domain.VisibilityAuthenticated)
	}
	return false
}
