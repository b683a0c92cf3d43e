package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/models"
)

// CommentResult is a single comment together with the trip it belongs to.
type CommentResult struct {
	Trip    models.TripRef `json:"trip"`
	Comment models.Comment `json:"comment"`
	Status  string         `json:"status"`
}

// AddComment posts a comment on a trip. Any registered user may comment.
func (s *TripService) AddComment(ctx context.Context, authorEmail, tripID, text string) (*models.Comment, error) {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, errValidation("Body parameter 'comment' is required.")
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    author.Email,
		Comment:   text,
		CreatedOn: time.Now().UTC(),
	}
	if err := s.store.AddComment(ctx, trip.ID, comment); err != nil {
		return nil, notFoundAs(err, "Trip with id '%s' not found.", tripID)
	}
	s.logger.Info("Comment added", "trip_id", tripID, "comment_id", comment.ID.Hex(), "author", author.Email)
	return &comment, nil
}

// GetComment returns one comment of a trip.
func (s *TripService) GetComment(ctx context.Context, tripID, commentID string) (*CommentResult, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	comment, err := findComment(trip, commentID)
	if err != nil {
		return nil, err
	}
	return &CommentResult{
		Trip:    models.TripRef{ID: trip.ID, Name: trip.Name},
		Comment: *comment,
		Status:  "OK",
	}, nil
}

// UpdateComment replaces a comment's text. The trip owner, the comment's
// author and admins may do so.
func (s *TripService) UpdateComment(ctx context.Context, authorEmail, tripID, commentID, text string) (*models.Comment, error) {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return nil, err
	}
	comment, err := findComment(trip, commentID)
	if err != nil {
		return nil, err
	}
	if !canModifyComment(author, trip, comment) {
		return nil, errAccessDenied("Not authorized to update this comment.")
	}
	if text == "" {
		return nil, errValidation("Parameter 'comment' is required.")
	}

	updated, err := s.store.UpdateComment(ctx, trip.ID, comment.ID, text)
	if err != nil {
		return nil, notFoundAs(err, "Comment with id '%s' not found.", commentID)
	}
	s.logger.Info("Comment updated", "trip_id", tripID, "comment_id", commentID)
	return updated, nil
}

// DeleteComment removes a comment from a trip.
func (s *TripService) DeleteComment(ctx context.Context, authorEmail, tripID, commentID string) error {
	trip, author, err := s.tripForAuthor(ctx, authorEmail, tripID)
	if err != nil {
		return err
	}
	comment, err := findComment(trip, commentID)
	if err != nil {
		return err
	}
	if !canModifyComment(author, trip, comment) {
		return errAccessDenied("Not authorized to delete this comment.")
	}
	if err := s.store.RemoveComment(ctx, trip.ID, comment.ID); err != nil {
		return notFoundAs(err, "Comment with id '%s' not found.", commentID)
	}
	s.logger.Info("Comment deleted", "trip_id", tripID, "comment_id", commentID)
	return nil
}

func canModifyComment(author *models.User, trip *models.Trip, comment *models.Comment) bool {
	return author.CanModify(trip.User) || author.Email == comment.Author
}

func findComment(trip *models.Trip, commentID string) (*models.Comment, error) {
	if len(trip.Comments) == 0 {
		return nil, errNotFound("No comments found.")
	}
	id, err := parseID("comment", commentID)
	if err != nil {
		return nil, err
	}
	comment := trip.FindComment(id)
	if comment == nil {
		return nil, errNotFound("Comment with id '%s' not found.", commentID)
	}
	return comment, nil
}
