// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/otakughor/backend/internal/ledger"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

var (
	ErrLedgerDisabled = errors.New("ledger mirror is disabled")
	ErrLastSuperAdmin = errors.New("cannot remove the last superadmin")
	ErrInvalidRole    = errors.New("invalid admin role")
)

const recentOrdersOnBoard = 5

type AdminService struct {
	admins        *repository.AdminRepository
	products      *ProductService
	orders        *OrderService
	users         *UserService
	notifications *NotificationService
	auditLogs     *repository.AuditLogRepository
	outbox        *ledger.Outbox
}

type AuditLogQuery struct {
	Params        utils.PaginationParams
	PrincipalID   string
	PrincipalType string
	ResourceType  string
}

type DashboardSummary struct {
	Products            *repository.ProductStats `json:"products"`
	Orders              *repository.OrderStats   `json:"orders"`
	TotalUsers          int                      `json:"totalUsers"`
	ActiveUsers         int                      `json:"activeUsers"`
	UnreadNotifications int                      `json:"unreadNotifications"`
	RecentOrders        []models.Order           `json:"recentOrders"`
	Ledger              *LedgerSummary           `json:"ledger,omitempty"`
}

type LedgerSummary struct {
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

func NewAdminService(
	admins *repository.AdminRepository,
	products *ProductService,
	orders *OrderService,
	users *UserService,
	notifications *NotificationService,
	auditLogs *repository.AuditLogRepository,
	outbox *ledger.Outbox,
) *AdminService {
	return &AdminService{
		admins:        admins,
		products:      products,
		orders:        orders,
		users:         users,
		notifications: notifications,
		auditLogs:     auditLogs,
		outbox:        outbox,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	productStats, err := s.products.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}

	orderStats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	totalUsers, activeUsers, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("user counts: %w", err)
	}

	unread, err := s.notifications.UnreadCount(ctx, repository.Recipient{Admin: true})
	if err != nil {
		return nil, fmt.Errorf("unread notifications: %w", err)
	}

	recent, err := s.orders.RecentOrders(ctx, recentOrdersOnBoard)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}

	summary := &DashboardSummary{
		Products:            productStats,
		Orders:              orderStats,
		TotalUsers:          totalUsers,
		ActiveUsers:         activeUsers,
		UnreadNotifications: unread,
		RecentOrders:        recent,
	}

	if s.outbox.Enabled() {
		entries, err := s.outbox.List(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("ledger entries: %w", err)
		}
		summary.Ledger = &LedgerSummary{}
		for _, e := range entries {
			switch e.Status {
			case ledger.StatusPending:
				summary.Ledger.Pending++
			case ledger.StatusDelivered:
				summary.Ledger.Delivered++
			case ledger.StatusFailed:
				summary.Ledger.Failed++
			}
		}
	}

	return summary, nil
}

func (s *AdminService) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "admin")
	}
	public := admin.Public()
	return &public, nil
}

// CreateAdmin is only reachable from the admin CLI.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password, role string) (*models.Admin, error) {
	if !models.ValidAdminRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	admin, err := s.admins.Create(ctx, &models.Admin{Username: username, Role: role}, password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	public := admin.Public()
	return &public, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i] = admins[i].Public()
	}
	return admins, nil
}

func (s *AdminService) ResetAdminPassword(ctx context.Context, username, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, "admin")
	}
	return s.admins.SetPassword(ctx, admin.ID, password)
}

// DeleteAdmin refuses to remove the only remaining superadmin.
func (s *AdminService) DeleteAdmin(ctx context.Context, username string) error {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, "admin")
	}

	if admin.Role == models.AdminRoleSuperAdmin {
		admins, err := s.admins.List(ctx)
		if err != nil {
			return err
		}
		supers := 0
		for _, a := range admins {
			if a.Role == models.AdminRoleSuperAdmin {
				supers++
			}
		}
		if supers <= 1 {
			return ErrLastSuperAdmin
		}
	}

	if _, err := s.admins.Delete(ctx, admin.ID); err != nil {
		return notFound(err, "admin")
	}
	return nil
}

func (s *AdminService) LedgerEntries(ctx context.Context, status string) ([]ledger.Entry, error) {
	if !s.outbox.Enabled() {
		return nil, ErrLedgerDisabled
	}
	switch status {
	case "", ledger.StatusPending, ledger.StatusDelivered, ledger.StatusFailed:
	default:
		return nil, invalid(utils.NewValidationError("status", "oneof", "status must be pending, delivered or failed"))
	}
	return s.outbox.List(ctx, status)
}

func (s *AdminService) RetryLedgerEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	if !s.outbox.Enabled() {
		return nil, ErrLedgerDisabled
	}
	entry, err := s.outbox.Retry(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound) {
			return nil, fmt.Errorf("ledger entry %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return entry, nil
}

// AuditLogs returns one page of audit entries, newest first.
func (s *AdminService) AuditLogs(ctx context.Context, q AuditLogQuery) ([]models.AuditLog, int, error) {
	var filter store.Filter
	if q.PrincipalID != "" {
		filter = filter.And(store.Eq("principalId", q.PrincipalID))
	}
	if q.PrincipalType != "" {
		filter = filter.And(store.Eq("principalType", q.PrincipalType))
	}
	if q.ResourceType != "" {
		filter = filter.And(store.Eq("resourceType", q.ResourceType))
	}

	entries, err := s.auditLogs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return utils.Paginate(entries, q.Params), len(entries), nil
}
