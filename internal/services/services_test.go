package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
)

func TestMain(m *testing.M) {
	if err := i18n.Initialize(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type recordingSender struct {
	mu   sync.Mutex
	sent []MailMessage
	ch   chan MailMessage
}

func newRecordingSender() *recordingSender {
	return &recordingSender{ch: make(chan MailMessage, 8)}
}

func (r *recordingSender) Send(_ context.Context, msg MailMessage) error {
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	r.mu.Unlock()
	r.ch <- msg
	return nil
}

type fixture struct {
	store         store.Store
	cfg           *config.Config
	notifications *repository.NotificationRepository
	sender        *recordingSender
	products      *ProductService
	orders        *OrderService
	admins        *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Shop: config.ShopConfig{LowStockThreshold: 5, DefaultShippingCost: 60},
		I18n: config.I18nConfig{DefaultLocale: "en"},
		Mail: config.MailConfig{ShopURL: "https://otakughor.test"},
	}

	notificationRepo := repository.NewNotificationRepository(st)
	notifications := NewNotificationService(notificationRepo, cfg)
	sender := newRecordingSender()
	mail := NewMailServiceWithSender(sender, cfg.Mail)

	return &fixture{
		store:         st,
		cfg:           cfg,
		notifications: notificationRepo,
		sender:        sender,
		products:      NewProductService(repository.NewProductRepository(st), notifications),
		orders:        NewOrderService(repository.NewOrderRepository(st), notifications, nil, mail, cfg),
		admins: NewAdminService(repository.NewAdminRepository(st), nil, nil, nil, nil,
			repository.NewAuditLogRepository(st), nil),
	}
}

func (f *fixture) inventoryNotifications(t *testing.T) []models.Notification {
	t.Helper()
	list, err := f.notifications.ListFor(context.Background(), repository.NotificationQuery{
		Recipient: repository.Recipient{Admin: true},
		Type:      models.NotificationTypeInventory,
	})
	require.NoError(t, err)
	return list
}

func ptr[T any](v T) *T { return &v }

func TestMailServiceRendersWelcome(t *testing.T) {
	sender := newRecordingSender()
	mail := NewMailServiceWithSender(sender, config.MailConfig{ShopURL: "https://otakughor.test"})

	err := mail.SendWelcome(context.Background(), &models.User{Username: "luffy", Email: "luffy@example.com"})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "luffy@example.com", msg.To)
	assert.Equal(t, "Welcome to Otaku Ghor", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "luffy")
	assert.Contains(t, msg.HTMLBody, "https://otakughor.test")
}

func TestMailServiceSkipsOrdersWithoutEmail(t *testing.T) {
	sender := newRecordingSender()
	mail := NewMailServiceWithSender(sender, config.MailConfig{})

	require.NoError(t, mail.SendOrderConfirmation(context.Background(), &models.Order{TrackingNumber: "OG1ABCD"}))
	assert.Empty(t, sender.sent)
}

func TestNewMailServiceRequiresProviderKeys(t *testing.T) {
	_, err := NewMailService(config.MailConfig{Provider: "sendgrid"})
	assert.Error(t, err)

	_, err = NewMailService(config.MailConfig{Provider: "postmark"})
	assert.Error(t, err)

	_, err = NewMailService(config.MailConfig{Provider: "pigeon"})
	assert.Error(t, err)

	_, err = NewMailService(config.MailConfig{Provider: "log"})
	assert.NoError(t, err)
}

func TestCategoryRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.CreateProduct(ctx, &CreateProductRequest{
		Name: "Berserk Vol. 1", Category: string(models.CategoryManga), Price: ptr(900.0),
	})
	details, ok := ValidationDetails(err)
	require.True(t, ok)
	fields := []string{}
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"author", "printType"}, fields)

	figure, err := f.products.CreateProduct(ctx, &CreateProductRequest{
		Name: "Guts Figure", Category: string(models.CategoryFigures), Price: ptr(5000.0), Stock: ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, figure.Stock)
}

func TestStockTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.products.CreateProduct(ctx, &CreateProductRequest{
		Name: "Nendoroid Rem", Category: string(models.CategoryFigures), Price: ptr(4200.0), Stock: ptr(10),
	})
	require.NoError(t, err)

	// 10 -> 7 stays above the threshold.
	_, err = f.products.UpdateStock(ctx, product.ID, &UpdateStockRequest{Stock: ptr(3), Operation: "subtract"})
	require.NoError(t, err)
	assert.Empty(t, f.inventoryNotifications(t))

	// 7 -> 4 crosses into low stock.
	_, err = f.products.UpdateStock(ctx, product.ID, &UpdateStockRequest{Stock: ptr(3), Operation: "subtract"})
	require.NoError(t, err)
	// 4 -> 2 is already low.
	_, err = f.products.UpdateStock(ctx, product.ID, &UpdateStockRequest{Stock: ptr(2), Operation: "subtract"})
	require.NoError(t, err)

	list := f.inventoryNotifications(t)
	require.Len(t, list, 1)
	assert.Equal(t, models.PriorityHigh, list[0].Priority)

	updated, err := f.products.UpdateStock(ctx, product.ID, &UpdateStockRequest{Stock: ptr(0)})
	require.NoError(t, err)
	assert.False(t, updated.InStock())
	assert.Len(t, f.inventoryNotifications(t), 2)

	_, err = f.products.UpdateStock(ctx, product.ID, &UpdateStockRequest{Stock: ptr(1), Operation: "subtract"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.products.UpdateStock(ctx, "missing", &UpdateStockRequest{Stock: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderTotalsAndConfirmation(t *testing.T) {
	f := newFixture(t)

	order, err := f.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName:  "Nami",
		Phone:         "01800000000",
		Email:         "nami@example.com",
		Address:       "Cocoyasi Village",
		PaymentMethod: string(models.PaymentMethodBkash),
		CartItems: []CartItemRequest{
			{ProductID: "p1", Name: "Log Pose Replica", Price: ptr(750.0), Quantity: 2},
		},
		Discount: 10,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1500.0, order.Total)
	assert.Equal(t, 60.0, order.ShippingCost)
	assert.Equal(t, 1550.0, order.FinalTotal)
	assert.Empty(t, order.UserID)

	select {
	case msg := <-f.sender.ch:
		assert.Equal(t, "nami@example.com", msg.To)
		assert.Contains(t, msg.Subject, order.TrackingNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("order confirmation was not sent")
	}
}

func TestCreateOrderRejectsOversizedDiscount(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.CreateOrder(context.Background(), &CreateOrderRequest{
		CustomerName:  "Zoro",
		Phone:         "01900000000",
		Address:       "Shimotsuki Village",
		PaymentMethod: string(models.PaymentMethodCOD),
		ShippingCost:  ptr(0.0),
		CartItems: []CartItemRequest{
			{ProductID: "p1", Name: "Wado Ichimonji", Price: ptr(100.0), Quantity: 1},
		},
		Discount: 101,
	}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.admins.CreateAdmin(ctx, "root", "secret1", "overlord")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = f.admins.CreateAdmin(ctx, "root", "short", models.AdminRoleSuperAdmin)
	assert.ErrorIs(t, err, ErrValidation)

	root, err := f.admins.CreateAdmin(ctx, "root", "secret1", models.AdminRoleSuperAdmin)
	require.NoError(t, err)
	assert.Empty(t, root.Password)

	_, err = f.admins.CreateAdmin(ctx, "root", "secret2", models.AdminRoleAdmin)
	assert.ErrorIs(t, err, ErrConflict)

	assert.ErrorIs(t, f.admins.DeleteAdmin(ctx, "root"), ErrLastSuperAdmin)

	_, err = f.admins.CreateAdmin(ctx, "backup", "secret2", models.AdminRoleSuperAdmin)
	require.NoError(t, err)
	require.NoError(t, f.admins.DeleteAdmin(ctx, "root"))
	assert.ErrorIs(t, f.admins.DeleteAdmin(ctx, "root"), ErrNotFound)

	require.NoError(t, f.admins.ResetAdminPassword(ctx, "backup", "another1"))
	assert.ErrorIs(t, f.admins.ResetAdminPassword(ctx, "ghost", "another1"), ErrNotFound)

	admins, err := f.admins.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "backup", admins[0].Username)
}

func TestLedgerDisabled(t *testing.T) {
	f := newFixture(t)

	_, err := f.admins.LedgerEntries(context.Background(), "")
	assert.ErrorIs(t, err, ErrLedgerDisabled)
	_, err = f.admins.RetryLedgerEntry(context.Background(), "x")
	assert.ErrorIs(t, err, ErrLedgerDisabled)
}
