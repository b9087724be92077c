package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sproutcrm/sprout-sdk/pkg/composables"
)

// TestContext builds contexts that carry the same composables production
// middleware provides, without a database behind them. A NopTx is injected
// so transactional service helpers run their callbacks directly; service
// tests pair the context with in-memory repositories.
type TestContext struct {
	ctx      context.Context
	tenantID uuid.UUID
}

func NewTestContext() *TestContext {
	return &TestContext{
		ctx:      context.Background(),
		tenantID: uuid.New(),
	}
}

// WithTenant overrides the generated tenant id.
func (tc *TestContext) WithTenant(tenantID uuid.UUID) *TestContext {
	tc.tenantID = tenantID
	return tc
}

// Anonymous drops the tenant so unauthenticated paths can be exercised.
func (tc *TestContext) Anonymous() *TestContext {
	tc.tenantID = uuid.Nil
	return tc
}

func (tc *TestContext) Build(tb testing.TB) (*Env, context.Context) {
	tb.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	ctx := tc.ctx
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))
	ctx = composables.WithParams(ctx, &composables.Params{
		IP:        "127.0.0.1",
		UserAgent: "itf",
		RequestID: uuid.NewString(),
	})
	ctx = composables.WithTx(ctx, NopTx{})
	if tc.tenantID != uuid.Nil {
		ctx = composables.WithTenantID(ctx, tc.tenantID)
	}

	env := &Env{TenantID: tc.tenantID, Logger: logger}
	return env, ctx
}

type Env struct {
	TenantID uuid.UUID
	Logger   *logrus.Logger
}
