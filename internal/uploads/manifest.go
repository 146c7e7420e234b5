package uploads

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// Manifest generates storage paths and records them with their owner.
type Manifest struct {
	repo repositories.UploadRepository
	log  *logrus.Logger
}

func NewManifest(repo repositories.UploadRepository, log *logrus.Logger) *Manifest {
	return &Manifest{repo: repo, log: log}
}

// Assign names filename with gen and records the result for ownerID.
func (m *Manifest) Assign(ctx context.Context, ownerID uint, gen PathGenerator, filename string) (*models.Upload, error) {
	upload := &models.Upload{
		Path:         gen.Generate(filename),
		Category:     gen.Category,
		OriginalName: filename,
		OwnerID:      ownerID,
	}
	if err := m.repo.Record(ctx, upload); err != nil {
		m.log.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"category": gen.Category,
		}).Error("failed to record upload")
		return nil, err
	}

	m.log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"path":     upload.Path,
	}).Debug("upload recorded")
	return upload, nil
}

// Forget drops every recorded upload of ownerID.
func (m *Manifest) Forget(ctx context.Context, ownerID uint) (int64, error) {
	n, err := m.repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	m.log.WithFields(logrus.Fields{"owner_id": ownerID, "removed": n}).Info("uploads forgotten")
	return n, nil
}
