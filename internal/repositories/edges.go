package repositories

import (
	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// edgeSet is one many-to-many join table. Rows are (owner, peer) pairs,
// unique through the composite primary key gorm gives join tables.
type edgeSet struct {
	relation string
	table    string
	ownerCol string
	peerCol  string
}

var (
	followersEdge = edgeSet{relation: "followers", table: "user_followers", ownerCol: "user_id", peerCol: "follower_id"}
	followingEdge = edgeSet{relation: "following", table: "user_following", ownerCol: "user_id", peerCol: "following_id"}
	requestsEdge  = edgeSet{relation: "requests", table: "user_requests", ownerCol: "user_id", peerCol: "requester_id"}
	likesEdge     = edgeSet{relation: "likes", table: "post_likes", ownerCol: "post_id", peerCol: "user_id"}
	viewsEdge     = edgeSet{relation: "views", table: "story_views", ownerCol: "story_id", peerCol: "user_id"}
	taggedEdge    = edgeSet{relation: "tagged", table: "story_tagged", ownerCol: "story_id", peerCol: "user_id"}

	// userEdges are the edge sets whose peers are users, in either column.
	userEdges = []edgeSet{followersEdge, followingEdge, requestsEdge}
	// peerUserEdges are the edge sets owned by content with users as peers.
	peerUserEdges = []edgeSet{likesEdge, viewsEdge, taggedEdge}
)

// add inserts the pair; an existing pair is left untouched.
func (e edgeSet) add(tx *gorm.DB, owner, peer interface{}) error {
	err := tx.Table(e.table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{e.ownerCol: owner, e.peerCol: peer}).Error
	if err != nil {
		return translateError(err, e.relation, owner)
	}
	metrics.EdgeMutations.WithLabelValues(e.relation, "add").Inc()
	return nil
}

// remove deletes the pair and reports whether it existed.
func (e edgeSet) remove(tx *gorm.DB, owner, peer interface{}) (bool, error) {
	res := tx.Exec("DELETE FROM "+e.table+" WHERE "+e.ownerCol+" = ? AND "+e.peerCol+" = ?", owner, peer)
	if res.Error != nil {
		return false, translateError(res.Error, e.relation, owner)
	}
	if res.RowsAffected > 0 {
		metrics.EdgeMutations.WithLabelValues(e.relation, "remove").Inc()
	}
	return res.RowsAffected > 0, nil
}

func (e edgeSet) has(tx *gorm.DB, owner, peer interface{}) (bool, error) {
	var count int64
	err := tx.Table(e.table).Where(e.ownerCol+" = ? AND "+e.peerCol+" = ?", owner, peer).Count(&count).Error
	if err != nil {
		return false, translateError(err, e.relation, owner)
	}
	return count > 0, nil
}

// count is the cardinality of owner's edge set; an empty set counts 0.
func (e edgeSet) count(tx *gorm.DB, owner interface{}) (int64, error) {
	var count int64
	if err := tx.Table(e.table).Where(e.ownerCol+" = ?", owner).Count(&count).Error; err != nil {
		return 0, translateError(err, e.relation, owner)
	}
	return count, nil
}

// peers loads the users on the peer side of owner's edge set.
func (e edgeSet) peers(tx *gorm.DB, owner interface{}) ([]models.User, error) {
	users := []models.User{}
	err := tx.Where("id IN (?)",
		tx.Table(e.table).Select(e.peerCol).Where(e.ownerCol+" = ?", owner),
	).Order("id").Find(&users).Error
	if err != nil {
		return nil, translateError(err, e.relation, owner)
	}
	return users, nil
}

// purgeOwners drops every row owned by one of owners.
func (e edgeSet) purgeOwners(tx *gorm.DB, owners interface{}) error {
	if err := tx.Exec("DELETE FROM "+e.table+" WHERE "+e.ownerCol+" IN (?)", owners).Error; err != nil {
		return translateError(err, e.relation, owners)
	}
	return nil
}

// purgePeer drops every row in which peer appears on the peer side.
func (e edgeSet) purgePeer(tx *gorm.DB, peer interface{}) error {
	if err := tx.Exec("DELETE FROM "+e.table+" WHERE "+e.peerCol+" = ?", peer).Error; err != nil {
		return translateError(err, e.relation, peer)
	}
	return nil
}
