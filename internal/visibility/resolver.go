// Package visibility decides which diary entries a viewer may read. It is
// the single implementation of the privacy rules: every listing, search, and
// single-entry endpoint goes through the same resolver instead of rebuilding
// the predicate per handler.
package visibility

import (
	"errors"

	"naturelog/backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the entry does not exist, independent of privacy.
	ErrNotFound = errors.New("entry not found")

	// ErrForbidden means the entry exists but the viewer may not read it.
	ErrForbidden = errors.New("entry not visible to viewer")
)

// publicLevels are the privacy levels readable by anyone.
var publicLevels = []models.PrivacyLevel{models.PrivacyPublic, models.PrivacyPublicAnonymous}

// Resolver evaluates entry visibility for a viewer, either row-by-row
// (CanView) or as a SQL predicate for listings (Scope).
type Resolver struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// FriendIDs returns the ids of all users with an accepted friendship with
// userID, whichever side sent the request.
func (r *Resolver) FriendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.StatusAccepted, userID, userID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.OtherSide(userID))
	}
	return ids, nil
}

// IsFriend reports whether an accepted friendship exists between the two
// users, in either direction.
func (r *Resolver) IsFriend(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("status = ?", models.StatusAccepted).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// CanView decides whether viewerID (nil for anonymous) may read the entry.
// It returns nil when visible and ErrForbidden otherwise. PRIVATE entries
// yield ErrForbidden for every non-owner rather than pretending the entry
// does not exist.
func (r *Resolver) CanView(entry models.DiaryEntry, viewerID *uint) error {
	switch entry.PrivacyLevel {
	case models.PrivacyPublic, models.PrivacyPublicAnonymous:
		return nil
	}

	if viewerID == nil {
		return ErrForbidden
	}
	if entry.UserID == *viewerID {
		return nil
	}

	if entry.PrivacyLevel == models.PrivacyFriendsOnly {
		friend, err := r.IsFriend(*viewerID, entry.UserID)
		if err != nil {
			return err
		}
		if friend {
			return nil
		}
	}

	return ErrForbidden
}

// GetEntry loads the entry and checks visibility in one step. A missing
// entry is ErrNotFound regardless of who asks.
func (r *Resolver) GetEntry(entryID uint, viewerID *uint) (models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entry, ErrNotFound
		}
		return entry, err
	}

	if err := r.CanView(entry, viewerID); err != nil {
		return models.DiaryEntry{}, err
	}
	return entry, nil
}

// Scope builds a GORM scope selecting exactly the entries viewerID may see
// in listings: public levels, the viewer's own entries, and friends-only
// entries from accepted friends, minus anything on the viewer's hide lists.
func (r *Resolver) Scope(viewerID *uint) (func(*gorm.DB) *gorm.DB, error) {
	if viewerID == nil {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("privacy_level IN ?", publicLevels)
		}, nil
	}

	friendIDs, err := r.FriendIDs(*viewerID)
	if err != nil {
		return nil, err
	}

	var hiddenEntryIDs []uint
	if err := r.db.Model(&models.HiddenEntry{}).
		Where("user_id = ?", *viewerID).
		Pluck("diary_entry_id", &hiddenEntryIDs).Error; err != nil {
		return nil, err
	}

	var hiddenUserIDs []uint
	if err := r.db.Model(&models.HiddenUser{}).
		Where("user_id = ?", *viewerID).
		Pluck("hidden_user_id", &hiddenUserIDs).Error; err != nil {
		return nil, err
	}

	viewer := *viewerID
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("privacy_level IN ?", publicLevels).
				Or("user_id = ?", viewer).
				Or("privacy_level = ? AND user_id IN ?", models.PrivacyFriendsOnly, friendIDs),
		)
		// An empty NOT IN list would compare against NULL and drop every
		// row, so the exclusions are only added when the lists are non-empty.
		if len(hiddenEntryIDs) > 0 {
			db = db.Where("id NOT IN ?", hiddenEntryIDs)
		}
		if len(hiddenUserIDs) > 0 {
			db = db.Where("user_id NOT IN ?", hiddenUserIDs)
		}
		return db
	}, nil
}
