package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

var adminSession = &ports.Session{IdentityID: "a-1", Role: domain.RoleAdmin, TokenID: "jti-a"}

func TestAdminHandler_PendingProviders(t *testing.T) {
	pending := providerListing()
	pending.Identity.Approval = domain.Approval{}
	h := NewAdminHandler(&stubApprovals{pending: []domain.ProviderListing{pending}}, &stubReports{})

	c, rec := newContext(http.MethodGet, "/api/admin/pending-providers", "", adminSession)
	if err := h.PendingProviders(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp providerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Providers) != 1 || resp.Providers[0].IsApproved || resp.Providers[0].NationalID != "NIN-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAdminHandler_ApproveProvider(t *testing.T) {
	for _, sent := range []bool{true, false} {
		approvals := &stubApprovals{
			approveFn: func(ctx context.Context, id string) (*ports.ApproveResult, error) {
				if id != "p-1" {
					t.Fatalf("unexpected id %q", id)
				}
				l := providerListing()
				return &ports.ApproveResult{Identity: &l.Identity, NotificationSent: sent}, nil
			},
		}
		h := NewAdminHandler(approvals, &stubReports{})

		c, rec := newContext(http.MethodPost, "/api/admin/approve-provider/p-1", "", adminSession)
		c.SetParamNames("id")
		c.SetParamValues("p-1")

		if err := h.ApproveProvider(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp approveResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp.NotificationSent != sent || !resp.User.IsApproved {
			t.Fatalf("unexpected payload: %+v", resp)
		}
		if strings.Contains(rec.Body.String(), "123456") {
			t.Fatalf("login code leaked in response")
		}
	}
}

func TestAdminHandler_ApproveProvider_NotFound(t *testing.T) {
	approvals := &stubApprovals{
		approveFn: func(ctx context.Context, id string) (*ports.ApproveResult, error) {
			return nil, domain.ErrProviderNotFound
		},
	}
	h := NewAdminHandler(approvals, &stubReports{})

	c, _ := newContext(http.MethodPost, "/api/admin/approve-provider/x", "", adminSession)
	c.SetParamNames("id")
	c.SetParamValues("x")

	if err := h.ApproveProvider(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminHandler_Reports(t *testing.T) {
	reporter := domain.Summary{ID: "u-1", Name: "Ada"}
	reports := &stubReports{views: []domain.ReportView{{
		Report:   domain.Report{ID: "r-1", ReporterID: "u-1", Category: "fraud", Status: domain.ReportPending, CreatedAt: time.Now()},
		Reporter: &reporter,
	}}}
	h := NewAdminHandler(&stubApprovals{}, reports)

	c, rec := newContext(http.MethodGet, "/api/admin/reports", "", adminSession)
	if err := h.Reports(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp reportListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].Reporter == nil || resp.Reports[0].Reporter.Name != "Ada" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
