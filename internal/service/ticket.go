package service

import (
	"context"
	"fmt"
	"strings"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/events"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

type ticketService struct {
	ticketRepo  repository.TicketRepository
	appRepo     repository.ApplicationRepository
	commentRepo repository.CommentRepository
	notifier    Notifier
	events      events.Publisher
}

func NewTicketService(
	ticketRepo repository.TicketRepository,
	appRepo repository.ApplicationRepository,
	commentRepo repository.CommentRepository,
	notifier Notifier,
	publisher events.Publisher,
) TicketService {
	return &ticketService{
		ticketRepo:  ticketRepo,
		appRepo:     appRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		events:      publisher,
	}
}

func validPriority(p domain.TicketPriority) bool {
	switch p {
	case domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh, domain.TicketPriorityUrgent:
		return true
	}
	return false
}

func (s *ticketService) CreateTicket(ctx context.Context, tenantID int32, in CreateTicketInput) (*domain.Ticket, error) {
	logger.EnterMethod("ticketService.CreateTicket", "tenantID", tenantID, "propertyID", in.PropertyID)

	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title is required")
	}
	if in.Priority == "" {
		in.Priority = domain.TicketPriorityMedium
	}
	if !validPriority(in.Priority) {
		return nil, invalid("unknown priority %q", in.Priority)
	}
	app, err := s.appRepo.FindApproved(ctx, tenantID, in.PropertyID)
	if err != nil {
		if isNotFound(err) {
			return nil, forbidden("tickets can only be filed for a property you rent")
		}
		return nil, err
	}

	t := &domain.Ticket{
		PropertyID:  in.PropertyID,
		TenantID:    tenantID,
		LandlordID:  app.LandlordID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      domain.TicketStatusNew,
	}
	if err := s.ticketRepo.Create(ctx, t); err != nil {
		logger.ExitMethodWithError("ticketService.CreateTicket", err)
		return nil, err
	}

	s.notifier.Notify(ctx, t.LandlordID, Notice{
		Type:       "TICKET_CREATED",
		Title:      "New maintenance ticket",
		Message:    fmt.Sprintf("[%s] %s", t.Priority, t.Title),
		Attributes: map[string]string{"ticket_id": idString(t.ID), "property_id": idString(t.PropertyID)},
	})
	s.events.Publish(ctx, events.New("ticket", t.ID, "created", string(t.Status), tenantID))
	logger.ExitMethod("ticketService.CreateTicket", "ticketID", t.ID)
	return t, nil
}

func (s *ticketService) visible(ctx context.Context, actor Actor, ticketID int32) (*domain.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && t.TenantID != actor.UserID && t.LandlordID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// participant loads the ticket for a mutation; outsiders are refused rather than hidden.
func (s *ticketService) participant(ctx context.Context, actor Actor, ticketID int32) (*domain.Ticket, error) {
	t, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && t.TenantID != actor.UserID && t.LandlordID != actor.UserID {
		return nil, forbidden("not a party to ticket %d", ticketID)
	}
	return t, nil
}

func (s *ticketService) GetTicket(ctx context.Context, actor Actor, ticketID int32) (*domain.Ticket, error) {
	t, err := s.visible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByParent(ctx, domain.CommentParentTicket, t.ID)
	if err != nil {
		return nil, err
	}
	t.Comments = comments
	return t, nil
}

func (s *ticketService) ListTickets(ctx context.Context, actor Actor, f domain.TicketFilter) ([]domain.Ticket, int32, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	switch actor.Role {
	case domain.UserRoleTenant:
		f.TenantID = actor.UserID
	case domain.UserRoleLandlord:
		f.LandlordID = actor.UserID
	}
	return s.ticketRepo.List(ctx, f)
}

// canMove reports whether actor may move t to next, independent of the transition table.
func canMove(actor Actor, t *domain.Ticket, next domain.TicketStatus) bool {
	if actor.IsAdmin() {
		return true
	}
	switch actor.UserID {
	case t.LandlordID:
		if next == domain.TicketStatusClosed {
			return t.Status == domain.TicketStatusDeclined || t.Status == domain.TicketStatusResolved
		}
		return true
	case t.TenantID:
		return next == domain.TicketStatusClosed && (t.Status == domain.TicketStatusNew || t.Status == domain.TicketStatusResolved)
	}
	return false
}

func (s *ticketService) UpdateStatus(ctx context.Context, actor Actor, ticketID int32, next domain.TicketStatus) (*domain.Ticket, error) {
	t, err := s.participant(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if !t.Status.CanTransitionTo(next) {
		return nil, invalidTransition("ticket", t.Status, next)
	}
	if !canMove(actor, t, next) {
		return nil, forbidden("you cannot move this ticket to %s", next)
	}

	prev := t.Status
	t.Status = next
	if err := s.ticketRepo.Update(ctx, t, prev); err != nil {
		return nil, err
	}
	logger.Info("Ticket status changed", "ticketID", t.ID, "from", prev, "to", next)
	s.events.Publish(ctx, events.New("ticket", t.ID, string(next), string(next), actor.UserID))

	other := t.TenantID
	if actor.UserID == t.TenantID {
		other = t.LandlordID
	}
	s.notifier.Notify(ctx, other, Notice{
		Type:       "TICKET_" + strings.ToUpper(string(next)),
		Title:      "Ticket " + string(next),
		Message:    fmt.Sprintf("Ticket %q is now %s", t.Title, next),
		Attributes: map[string]string{"ticket_id": idString(t.ID)},
	})
	return t, nil
}

func (s *ticketService) Comment(ctx context.Context, actor Actor, ticketID int32, body string, parentCommentID *int32) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("comment body is required")
	}
	t, err := s.participant(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.TicketStatusClosed {
		return nil, invalid("comments are closed on a closed ticket")
	}
	if parentCommentID != nil {
		thread, err := s.commentRepo.ListByParent(ctx, domain.CommentParentTicket, t.ID)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckReplyTarget(thread, *parentCommentID); err != nil {
			return nil, err
		}
	}

	c := &domain.Comment{
		ParentType:      domain.CommentParentTicket,
		ParentID:        t.ID,
		AuthorID:        actor.UserID,
		AuthorRole:      actor.Role,
		Body:            body,
		ParentCommentID: parentCommentID,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	for _, uid := range []int32{t.TenantID, t.LandlordID} {
		if uid == actor.UserID {
			continue
		}
		s.notifier.Notify(ctx, uid, Notice{
			Type:       "TICKET_COMMENT",
			Title:      "New comment on ticket",
			Message:    body,
			Attributes: map[string]string{"ticket_id": idString(t.ID)},
		})
	}
	return c, nil
}
