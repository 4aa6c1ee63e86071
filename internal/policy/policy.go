// Package policy decides whether an actor may act on a diary, entry, like or
// comment. Decisions are pure: callers load the resource first and report a
// missing resource as not found before asking here.
package policy

import (
	"fmt"

	"github.com/diaryhq/diary-server/internal/domain"
	domainerrors "github.com/diaryhq/diary-server/internal/errors"
)

// Action is the operation being attempted.
type Action string

// Actions.
const (
	View   Action = "view"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
	Access Action = "access" // listing a diary's entries
)

// anonymous is the actor ID of an unauthenticated caller.
const anonymous = ""

func deny(action Action, resource string) error {
	return domainerrors.Forbidden(fmt.Sprintf("User is not authorized to %s the %s", action, resource))
}

func requireActor(actorID string) error {
	if actorID == anonymous {
		return domainerrors.Unauthorized("Not authenticated")
	}
	return nil
}

// Diary allows only the diary's owner, for every action.
func Diary(actorID string, d *domain.Diary, action Action) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if d.OwnerID != actorID {
		return deny(action, "diary")
	}
	return nil
}

// Entry allows only the owner of the entry's diary. This holds for View
// even when the diary is PUBLIC; public entries are only exposed through
// PubliclyVisible.
func Entry(actorID string, e *domain.Entry, action Action) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if e.OwnerID != actorID {
		return deny(action, "entry")
	}
	return nil
}

// CreateEntry allows adding an entry to d only for d's owner.
func CreateEntry(actorID string, d *domain.Diary) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if d.OwnerID != actorID {
		return deny(Create, "entry")
	}
	return nil
}

// Comment allows Update and Delete only for the comment's author. Any
// authenticated actor may View or Create.
func Comment(actorID string, c *domain.Comment, action Action) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	switch action {
	case View, Create:
		return nil
	}
	if c.UserID != actorID {
		return deny(action, "comment")
	}
	return nil
}

// Like allows Delete only for the user who liked. Any authenticated actor
// may View or Create.
func Like(actorID string, l *domain.Like, action Action) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	switch action {
	case View, Create:
		return nil
	}
	if l.UserID != actorID {
		return deny(action, "like")
	}
	return nil
}

// PubliclyVisible drops entries whose diary is not PUBLIC. It never fails:
// hidden entries are simply left out.
func PubliclyVisible(entries []*domain.Entry) []*domain.Entry {
	visible := make([]*domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsPublic() {
			visible = append(visible, e)
		}
	}
	return visible
}

// OwnedBy keeps only the entries owned by actorID.
func OwnedBy(actorID string, entries []*domain.Entry) []*domain.Entry {
	owned := make([]*domain.Entry, 0, len(entries))
	for _, e := range entries {
		if actorID != anonymous && e.OwnerID == actorID {
			owned = append(owned, e)
		}
	}
	return owned
}

// Authenticated allows any signed-in actor. Tag writes and like or comment
// creation need nothing more.
func Authenticated(actorID string) error {
	return requireActor(actorID)
}
