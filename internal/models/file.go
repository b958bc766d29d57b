package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileType enumerates the accepted kinds of file records.
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// RootParentID is the sentinel parent for top-level entries.
const RootParentID = "0"

// ValidFileType reports whether t is one of the accepted file types.
func ValidFileType(t string) bool {
	switch FileType(t) {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// File is a node in a user's file tree. Folders may have children;
// files and images carry a content reference instead. Ownership is
// fixed at creation; IsPublic is the only field that changes afterward.
type File struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Type       FileType           `bson:"type" json:"type"`
	IsPublic   bool               `bson:"is_public" json:"isPublic"`
	ParentID   string             `bson:"parent_id" json:"parentId"`
	ContentRef string             `bson:"content_ref,omitempty" json:"-"`
}
