package service

import (
	"context"
	"fmt"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// ProviderDirectory lists approved providers with resolved image locators.
type ProviderDirectory struct {
	identities ports.IdentityRepository
	files      ports.FileResolver
}

func NewProviderDirectory(identities ports.IdentityRepository, files ports.FileResolver) *ProviderDirectory {
	return &ProviderDirectory{identities: identities, files: files}
}

func (d *ProviderDirectory) ListApproved(ctx context.Context) ([]domain.ProviderListing, error) {
	listings, err := d.identities.ListProviders(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	for i := range listings {
		listings[i].Profile.Images = resolveImages(d.files, listings[i].Profile.Images)
	}
	return listings, nil
}

func resolveImages(files ports.FileResolver, refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if loc := files.Resolve(ref); loc != "" {
			out = append(out, loc)
		}
	}
	return out
}
