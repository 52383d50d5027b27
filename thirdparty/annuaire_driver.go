package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/tidwall/gjson"
)

const (
	AnnuaireEntreprisesVendorKey = "annuaire-entreprises-data-gouv-fr"
	AnnuaireEntreprisesBaseURL   = "https://recherche-entreprises.api.gouv.fr"
)

// AnnuaireEntreprisesDriver searches the French government's company
// directory. The API is public, no admin settings are needed.
type AnnuaireEntreprisesDriver struct {
	*DriverContext
	Vendor Vendor
}

func (d *AnnuaireEntreprisesDriver) VendorKey() string {
	return AnnuaireEntreprisesVendorKey
}

// Search calls GET /search, see
// https://recherche-entreprises.api.gouv.fr/docs/#tag/Recherche-textuelle/paths/~1search/get
func (d *AnnuaireEntreprisesDriver) Search(ctx context.Context, query Record, integration VendorIntegration, maxResults int) ([]VendorResult, error) {
	vendorError := VendorError{}
	var json string
	builder := d.APIBuilder(AnnuaireEntreprisesVendorKey, AnnuaireEntreprisesBaseURL).
		Path("/search")
	for _, key := range query.Keys() {
		builder = builder.Param(key, query[key].String())
	}
	err := builder.
		Param("page", "1").
		Param("per_page", strconv.Itoa(maxResults)).
		Accept("application/json").
		ToString(&json).
		ErrorJSON(&vendorError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Annuaire Entreprises Error: %+v", vendorError)
		if msg := vendorError.message("erreur"); msg != "" {
			return nil, fmt.Errorf("failed to get search results: %s %w", msg, err)
		}
		return nil, fmt.Errorf("failed to get search results %w", err)
	}
	if !gjson.Valid(json) {
		log.Printf("Invalid Annuaire Entreprises Response:\n%s", json)
		return nil, errors.New("invalid json response")
	}
	items := NewSource(json)
	items.data = items.data.Get("results")
	return resultsFromArray(items, func(item Source) string {
		siren, _ := item.StringForPath("siren")
		return "siren:" + siren
	}, d.Vendor.SearchTransforms)
}
