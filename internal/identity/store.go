package identity

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-ldapauth/go-ldapauth/internal/db/models"
	"github.com/go-ldapauth/go-ldapauth/internal/directory"
)

// Store is a database backed identity store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on top of an open database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetGroups returns the names of all local groups the user belongs to.
// An unknown user has no groups.
func (s *Store) GetGroups(username string) ([]string, error) {
	user, err := s.findUser(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to look up user")
	}

	var groups []string
	err = s.db.Model(&models.UserGroup{}).
		Where("user_id = ?", user.ID).
		Order("name").
		Pluck("name", &groups).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user groups")
	}

	return groups, nil
}

// AddGroup adds the user to a local group. Adding an existing
// membership is a no-op.
func (s *Store) AddGroup(username string, group string) error {
	user, err := s.findUser(username)
	if err != nil {
		return errors.Wrap(err, "failed to look up user")
	}

	membership := models.UserGroup{UserID: user.ID, Name: group}
	err = s.db.Where(&membership).FirstOrCreate(&membership).Error
	if err != nil {
		return errors.Wrapf(err, "failed to add user to group %s", group)
	}

	return nil
}

// RemoveGroup removes the user from a local group. Removing a missing
// membership is a no-op.
func (s *Store) RemoveGroup(username string, group string) error {
	user, err := s.findUser(username)
	if err != nil {
		return errors.Wrap(err, "failed to look up user")
	}

	err = s.db.Where("user_id = ? AND name = ?", user.ID, group).
		Delete(&models.UserGroup{}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to remove user from group %s", group)
	}

	return nil
}

// PersistUser writes the directory profile attributes onto the local
// user record, creating the record on first login. It reports whether
// the record was created.
func (s *Store) PersistUser(profile directory.Profile) (bool, error) {
	created := false

	user, err := s.findUser(profile.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.Wrap(err, "failed to look up user")
		}

		created = true
		user = models.User{
			Active:     true,
			Username:   profile.Username,
			AuthSource: models.AuthSourceDirectory,
		}
	}

	user.RealName = profile.DisplayName
	user.Email = profile.Email

	if err := s.db.Save(&user).Error; err != nil {
		return false, errors.Wrapf(err, "failed to persist user %s", profile.Username)
	}

	log.Debug().Str("username", profile.Username).Bool("created", created).Msg("persisted directory profile")

	return created, nil
}

// SetUserDomain records the authentication domain a user account was
// created from.
func (s *Store) SetUserDomain(username string, domain string) error {
	user, err := s.findUser(username)
	if err != nil {
		return errors.Wrap(err, "failed to look up user")
	}

	record := models.UserDomain{UserID: user.ID}
	err = s.db.Where(&record).
		Assign(models.UserDomain{Domain: domain}).
		FirstOrCreate(&record).Error
	if err != nil {
		return errors.Wrapf(err, "failed to record domain for user %s", username)
	}

	return nil
}

// DeleteUserDomain removes the recorded authentication domain for a
// user, unlinking the account from its directory.
func (s *Store) DeleteUserDomain(username string) error {
	user, err := s.findUser(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errors.Wrap(err, "failed to look up user")
	}

	err = s.db.Where("user_id = ?", user.ID).Delete(&models.UserDomain{}).Error
	if err != nil {
		return errors.Wrapf(err, "failed to delete domain record for user %s", username)
	}

	return nil
}

func (s *Store) findUser(username string) (models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error

	return user, err
}
