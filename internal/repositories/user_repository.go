package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository defines account management and the social graph
type UserRepository interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	CreateSuperuser(ctx context.Context, email, username, password string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error

	AddFollower(ctx context.Context, userID, followerID uint) error
	RemoveFollower(ctx context.Context, userID, followerID uint) error
	AddFollowing(ctx context.Context, userID, followingID uint) error
	RemoveFollowing(ctx context.Context, userID, followingID uint) error
	AddRequest(ctx context.Context, userID, requesterID uint) error
	RemoveRequest(ctx context.Context, userID, requesterID uint) error
	Follow(ctx context.Context, followerID, targetID uint) error
	Unfollow(ctx context.Context, followerID, targetID uint) error
	AcceptRequest(ctx context.Context, userID, requesterID uint) error

	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
	ListRequests(ctx context.Context, userID uint) ([]models.User, error)
	NumberOfFollowers(ctx context.Context, userID uint) (int64, error)
	NumberOfFollowing(ctx context.Context, userID uint) (int64, error)
}

// PostgresUserRepository implements UserRepository on top of gorm
type PostgresUserRepository struct {
	db         *gorm.DB
	bcryptCost int
	log        *logrus.Logger
}

// NewPostgresUserRepository creates a new PostgresUserRepository.
// bcryptCost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewPostgresUserRepository(db *gorm.DB, bcryptCost int, log *logrus.Logger) *PostgresUserRepository {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresUserRepository{db: db, bcryptCost: bcryptCost, log: log}
}

// NormalizeEmail lower-cases the domain part, the text after the last "@".
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// CreateUser creates an account. Empty email or username fail before
// anything is hashed or written.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	return r.createUser(ctx, req, false)
}

// CreateSuperuser creates an account flagged as staff and superuser
func (r *PostgresUserRepository) CreateSuperuser(ctx context.Context, email, username, password string) (*models.User, error) {
	return r.createUser(ctx, models.CreateUserRequest{
		Email:    email,
		Username: username,
		Password: password,
	}, true)
}

func (r *PostgresUserRepository) createUser(ctx context.Context, req models.CreateUserRequest, privileged bool) (*models.User, error) {
	if req.Email == "" {
		return nil, models.NewValidationError("users must have an email address")
	}
	if req.Username == "" {
		return nil, models.NewValidationError("users must have a username")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), r.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:       NormalizeEmail(req.Email),
		Username:    strings.ToLower(req.Username),
		FullName:    req.FullName,
		Bio:         req.Bio,
		URL:         req.URL,
		ProfilePic:  req.ProfilePic,
		Password:    string(hash),
		IsActive:    true,
		IsStaff:     privileged,
		IsSuperuser: privileged,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := validateStruct(user); err != nil {
		return nil, err
	}

	defer metrics.TrackQuery("create", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateError(err, "user", user.Username)
	}
	metrics.RecordsCreated.WithLabelValues("user").Inc()
	return user, nil
}

// CheckPassword reports whether password matches the stored hash
func (r *PostgresUserRepository) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err, "user", id)
	}
	return &user, nil
}

// GetUserByUsername looks the username up the way it was stored, lower-cased
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		return nil, translateError(err, "user", username)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, translateError(err, "user", email)
	}
	return &user, nil
}

// UpdateProfile changes the optional profile fields that are set in req
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id uint, req models.UpdateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["fullname"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.URL != nil {
		updates["url"] = *req.URL
	}
	if req.ProfilePic != nil {
		updates["profile_pic"] = *req.ProfilePic
	}

	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, translateError(err, "user", id)
	}
	return r.GetUserByID(ctx, id)
}

// DeleteUser removes the user together with everything the user owns:
// posts (with their comments and likes), comments, stories (with their
// views and tags), and every edge row naming the user on either side.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	defer metrics.TrackQuery("delete", "users")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireFound(tx, &models.User{}, "user", id); err != nil {
			return err
		}

		var postIDs []uuid.UUID
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return translateError(err, "post", id)
		}
		if len(postIDs) > 0 {
			if err := deletePosts(tx, postIDs); err != nil {
				return err
			}
		}

		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return translateError(err, "comment", id)
		}

		var storyIDs []uuid.UUID
		if err := tx.Model(&models.Story{}).Where("author_id = ?", id).Pluck("id", &storyIDs).Error; err != nil {
			return translateError(err, "story", id)
		}
		if len(storyIDs) > 0 {
			if err := deleteStories(tx, storyIDs); err != nil {
				return err
			}
		}

		for _, e := range peerUserEdges {
			if err := e.purgePeer(tx, id); err != nil {
				return err
			}
		}
		for _, e := range userEdges {
			if err := e.purgeOwners(tx, []uint{id}); err != nil {
				return err
			}
			if err := e.purgePeer(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return translateError(err, "user", id)
		}

		r.log.WithFields(logrus.Fields{
			"user_id": id,
			"posts":   len(postIDs),
			"stories": len(storyIDs),
		}).Info("user deleted with owned records")
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordsDeleted.WithLabelValues("user").Inc()
	return nil
}

func requireUser(tx *gorm.DB, id uint) error {
	return requireRow(tx, &models.User{}, "user", id)
}

// addUserEdge adds (owner, peer) after checking both users exist.
func (r *PostgresUserRepository) addUserEdge(ctx context.Context, e edgeSet, owner, peer uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, owner); err != nil {
			return err
		}
		if err := requireUser(tx, peer); err != nil {
			return err
		}
		return e.add(tx, owner, peer)
	})
}

func (r *PostgresUserRepository) removeUserEdge(ctx context.Context, e edgeSet, owner, peer uint) error {
	_, err := e.remove(r.db.WithContext(ctx), owner, peer)
	return err
}

// AddFollower records followerID in userID's followers
func (r *PostgresUserRepository) AddFollower(ctx context.Context, userID, followerID uint) error {
	return r.addUserEdge(ctx, followersEdge, userID, followerID)
}

func (r *PostgresUserRepository) RemoveFollower(ctx context.Context, userID, followerID uint) error {
	return r.removeUserEdge(ctx, followersEdge, userID, followerID)
}

// AddFollowing records followingID in userID's following
func (r *PostgresUserRepository) AddFollowing(ctx context.Context, userID, followingID uint) error {
	return r.addUserEdge(ctx, followingEdge, userID, followingID)
}

func (r *PostgresUserRepository) RemoveFollowing(ctx context.Context, userID, followingID uint) error {
	return r.removeUserEdge(ctx, followingEdge, userID, followingID)
}

// AddRequest records a pending follow request from requesterID to userID
func (r *PostgresUserRepository) AddRequest(ctx context.Context, userID, requesterID uint) error {
	return r.addUserEdge(ctx, requestsEdge, userID, requesterID)
}

func (r *PostgresUserRepository) RemoveRequest(ctx context.Context, userID, requesterID uint) error {
	return r.removeUserEdge(ctx, requestsEdge, userID, requesterID)
}

// Follow writes both directions of a follow in one transaction:
// target.followers gains followerID and follower.following gains targetID.
func (r *PostgresUserRepository) Follow(ctx context.Context, followerID, targetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return follow(tx, followerID, targetID)
	})
}

func follow(tx *gorm.DB, followerID, targetID uint) error {
	if err := requireUser(tx, followerID); err != nil {
		return err
	}
	if err := requireUser(tx, targetID); err != nil {
		return err
	}
	if err := followersEdge.add(tx, targetID, followerID); err != nil {
		return err
	}
	return followingEdge.add(tx, followerID, targetID)
}

// Unfollow removes both directions written by Follow
func (r *PostgresUserRepository) Unfollow(ctx context.Context, followerID, targetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := followersEdge.remove(tx, targetID, followerID); err != nil {
			return err
		}
		_, err := followingEdge.remove(tx, followerID, targetID)
		return err
	})
}

// AcceptRequest turns a pending request into a follow
func (r *PostgresUserRepository) AcceptRequest(ctx context.Context, userID, requesterID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := requestsEdge.remove(tx, userID, requesterID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundError("follow request", requesterID)
		}
		return follow(tx, requesterID, userID)
	})
}

func (r *PostgresUserRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return followersEdge.peers(r.db.WithContext(ctx), userID)
}

func (r *PostgresUserRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return followingEdge.peers(r.db.WithContext(ctx), userID)
}

func (r *PostgresUserRepository) ListRequests(ctx context.Context, userID uint) ([]models.User, error) {
	return requestsEdge.peers(r.db.WithContext(ctx), userID)
}

// NumberOfFollowers is the size of the user's followers set
func (r *PostgresUserRepository) NumberOfFollowers(ctx context.Context, userID uint) (int64, error) {
	return followersEdge.count(r.db.WithContext(ctx), userID)
}

// NumberOfFollowing is the size of the user's following set
func (r *PostgresUserRepository) NumberOfFollowing(ctx context.Context, userID uint) (int64, error) {
	return followingEdge.count(r.db.WithContext(ctx), userID)
}
