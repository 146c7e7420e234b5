// Package uploads names files for the storage backend.
package uploads

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Categories of generated paths
const (
	CategoryUploads = "uploads"
	CategoryStories = "stories"
	CategoryImages  = "images"
)

// PathGenerator discards the caller's file name and keeps only its extension.
type PathGenerator struct {
	Category string
}

var (
	// Images names profile pictures and post photos.
	Images = PathGenerator{Category: CategoryUploads}
	// Stories names story images.
	Stories = PathGenerator{Category: CategoryStories}
)

// Generate returns "<category>/<uuid>.<ext>". The extension is everything
// after the last "."; a name without a dot is used whole as the extension.
func (g PathGenerator) Generate(filename string) string {
	parts := strings.Split(filename, ".")
	ext := parts[len(parts)-1]
	return path.Join(g.Category, uuid.NewString()+"."+ext)
}

// ImageFilePath names a profile picture or post photo.
func ImageFilePath(filename string) string {
	return Images.Generate(filename)
}

// StoryFilePath names a story image.
func StoryFilePath(filename string) string {
	return Stories.Generate(filename)
}

// PicturePath keeps the caller's base name under images/.
func PicturePath(filename string) string {
	return path.Join(CategoryImages, path.Base(filename))
}
