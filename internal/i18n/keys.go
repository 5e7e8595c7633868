// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyInternalError = "error.internal"
	KeyConflict      = "error.conflict"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthNoToken            = "auth.no_token"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidRefresh     = "auth.invalid_refresh_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthAdminNotFound      = "auth.admin_not_found"
	KeyAuthAccountInactive    = "auth.account_inactive"
	KeyAuthAdminOnly          = "auth.admin_only"
	KeyAuthUserOnly           = "auth.user_only"
	KeyAuthInsufficientRole   = "auth.insufficient_role"
	KeyAuthEmailTaken         = "auth.email_taken"
	KeyAuthUsernameTaken      = "auth.username_taken"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthTokenRefreshed     = "auth.token_refreshed"
	KeyAuthTokenValid         = "auth.token_valid"
	KeyAuthWrongPassword      = "auth.wrong_password"
	KeyAuthPasswordChanged    = "auth.password_changed"

	// Admins
	KeyAdminNotFound = "admin.not_found"

	// Users
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserActivated      = "user.activated"
	KeyUserDeactivated    = "user.deactivated"
	KeyUserDeleted        = "user.deleted"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductUpdated      = "product.updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductNotFound     = "product.not_found"
	KeyProductStockUpdated = "product.stock_updated"
	KeyProductOutOfStock   = "product.out_of_stock"
	KeyProductLowStock     = "product.low_stock"
	KeyProductNew          = "product.new"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderDeleted       = "order.deleted"
	KeyOrderNew           = "order.new"
	KeyOrderStatusChanged = "order.status_changed"

	// Notifications
	KeyNotificationCreated  = "notification.created"
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationRead     = "notification.read"
	KeyNotificationAllRead  = "notification.all_read"
	KeyNotificationDeleted  = "notification.deleted"

	// Ledger
	KeyLedgerNotFound  = "ledger.not_found"
	KeyLedgerRequeued  = "ledger.requeued"
	KeyLedgerNotFailed = "ledger.not_failed"
	KeyLedgerDisabled  = "ledger.disabled"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
	KeyFileRequired      = "file.required"
)
