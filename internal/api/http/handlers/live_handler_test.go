package handlers

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

func TestFramePayload(t *testing.T) {
	counts := framePayload(service.Frame{Event: service.FrameState, State: viewmodel.StatusCounts{Pending: 2, Resolved: 2}})
	gt.Value(t, counts).Equal(any(dto.StatusCounts{Total: 4, Pending: 2, Resolved: 2, ResolutionRate: 50}))

	alert := framePayload(service.Frame{
		Event:  service.FrameAlert,
		Alert:  &domain.Notification{Title: "Issue resolved", Message: "Pothole on Elm"},
		Unread: 3,
	})
	gt.Value(t, alert).Equal(any(dto.AlertFrame{Title: "Issue resolved", Message: "Pothole on Elm", UnreadCount: 3}))

	feed := framePayload(service.Frame{Event: service.FrameState, State: viewmodel.NewNotificationFeed(
		[]domain.Notification{{ID: "n1"}}, 1, 20)}).(dto.NotificationFeedFrame)
	gt.Array(t, feed.Notifications).Length(1)
	gt.Value(t, feed.UnreadCount).Equal(1)
}

func TestRequestValidator_UsesJSONNames(t *testing.T) {
	rv := NewRequestValidator()
	lat := 91.0
	err := rv.Validate(&dto.CreateIssueRequest{Category: "volcano", Latitude: &lat})

	de := apperrors.ToDomainError(err)
	gt.Value(t, de.HTTPStatus).Equal(400)
	gt.Value(t, de.Details["title"]).Equal("title is required")
	gt.Value(t, de.Details["description"]).Equal("description is required")
	gt.Value(t, de.Details["latitude"]).Equal("latitude must be a valid latitude")
	_, ok := de.Details["category"]
	gt.Bool(t, ok).True()

	gt.NoError(t, rv.Validate(&dto.UpdateIssueRequest{Status: domain.IssueStatusClosed}))
}

func TestRequestValidator_BoundsBytes(t *testing.T) {
	rv := NewRequestValidator()

	// 2000 runes of four bytes each fit the rune limit but not the byte limit
	wide := strings.Repeat("\U0001F6A7", 2000)
	de := apperrors.ToDomainError(rv.Validate(&dto.UpdateIssueRequest{Message: wide}))
	gt.Value(t, de.HTTPStatus).Equal(400)
	gt.Value(t, de.Details["message"]).Equal("message must be at most 4000 bytes")

	gt.NoError(t, rv.Validate(&dto.UpdateIssueRequest{Message: strings.Repeat("\U0001F6A7", 1000)}))
}
