package usecase

import (
	"context"
	"time"

	"github.com/robopass/robopass/internal/metrics"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
// Metric labels carry command names and statuses only, never arguments.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.CommandRecorder
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, recorder metrics.CommandRecorder) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: recorder,
	}
}

// record tracks one completed command invocation.
func (v *vaultUseCaseWithMetrics) record(ctx context.Context, command string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordCommand(ctx, command, status, time.Since(start))
}

func (v *vaultUseCaseWithMetrics) CreateAccount(ctx context.Context, username, password string) error {
	start := time.Now()
	err := v.next.CreateAccount(ctx, username, password)
	v.record(ctx, "create_account", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) Login(ctx context.Context, username, password string) error {
	start := time.Now()
	err := v.next.Login(ctx, username, password)
	v.record(ctx, "login", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) Logout(ctx context.Context) error {
	start := time.Now()
	err := v.next.Logout(ctx)
	v.record(ctx, "logout", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) CanUserAccess(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := v.next.CanUserAccess(ctx)
	v.record(ctx, "can_user_access", start, err)
	return ok, err
}

func (v *vaultUseCaseWithMetrics) AddCredential(
	ctx context.Context,
	url, username, password string,
) (string, error) {
	start := time.Now()
	id, err := v.next.AddCredential(ctx, url, username, password)
	v.record(ctx, "add_privacy", start, err)
	return id, err
}

func (v *vaultUseCaseWithMetrics) UpdateCredential(
	ctx context.Context,
	id, url, username, password string,
) (bool, error) {
	start := time.Now()
	updated, err := v.next.UpdateCredential(ctx, id, url, username, password)
	v.record(ctx, "update_privacy", start, err)
	return updated, err
}

func (v *vaultUseCaseWithMetrics) RemoveCredential(ctx context.Context, id string) error {
	start := time.Now()
	err := v.next.RemoveCredential(ctx, id)
	v.record(ctx, "remove_privacy", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) ListCredentials(
	ctx context.Context,
) ([]vaultDomain.CredentialEntry, error) {
	start := time.Now()
	entries, err := v.next.ListCredentials(ctx)
	v.record(ctx, "fetch_sorted_privacy_vec", start, err)
	return entries, err
}

func (v *vaultUseCaseWithMetrics) CopyToClipboard(ctx context.Context, id, field string) error {
	start := time.Now()
	err := v.next.CopyToClipboard(ctx, id, field)
	v.record(ctx, "copy_to_clipboard", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) GeneratePassword(ctx context.Context) (string, error) {
	start := time.Now()
	password, err := v.next.GeneratePassword(ctx)
	v.record(ctx, "generate_password", start, err)
	return password, err
}
