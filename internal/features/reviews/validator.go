package reviews

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive-api/internal/pkg/fileref"
)

var (
	ErrSelfReview     = errors.New("you cannot review yourself")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong = errors.New("comment must be at most 2000 characters")
)

// ValidateCreate checks the domain rules that binding tags cannot express.
// Runs before any write, so a rejected review never reaches storage.
func ValidateCreate(req *CreateReviewRequest, reviewerID, revieweeID primitive.ObjectID) error {
	if reviewerID == revieweeID {
		return ErrSelfReview
	}
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}
	if len(req.Comment) > 2000 {
		return ErrCommentTooLong
	}
	if len(req.Images) > 0 {
		if err := fileref.Validate(req.Images, fileref.ImageConstraints); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdate checks an author edit.
func ValidateUpdate(req *UpdateReviewRequest) error {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return ErrInvalidRating
	}
	if req.Comment != nil && len(*req.Comment) > 2000 {
		return ErrCommentTooLong
	}
	if len(req.Images) > 0 {
		if err := fileref.Validate(req.Images, fileref.ImageConstraints); err != nil {
			return err
		}
	}
	return nil
}
