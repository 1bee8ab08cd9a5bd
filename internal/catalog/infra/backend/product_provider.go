package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/distributor-portal/internal/catalog/domain"
)

const productQuery = `SELECT Id, Name, ProductCode, Family, IsActive, Prod_Img_Url__c, Description,
(SELECT UnitPrice FROM PricebookEntries WHERE Pricebook2.IsStandard = true LIMIT 1)
FROM Product2
WHERE Family = 'Steel'
ORDER BY CreatedDate DESC
LIMIT 200`

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ProductProvider reads the product listing from the backend query endpoint.
type ProductProvider struct {
	queryURL string
	tokens   TokenSource
	client   *http.Client
}

func NewProductProvider(queryURL string, tokens TokenSource, client *http.Client) *ProductProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProductProvider{queryURL: queryURL, tokens: tokens, client: client}
}

type queryResponse struct {
	Records []productRecord `json:"records"`
}

type productRecord struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	ProductCode string `json:"ProductCode"`
	Family      string `json:"Family"`
	IsActive    bool   `json:"IsActive"`
	ImageURL    string `json:"Prod_Img_Url__c"`
	Description string `json:"Description"`
	Pricebook   *struct {
		Records []struct {
			UnitPrice decimal.Decimal `json:"UnitPrice"`
		} `json:"records"`
	} `json:"PricebookEntries"`
}

func (p *ProductProvider) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	u, err := url.Parse(p.queryURL)
	if err != nil {
		return nil, fmt.Errorf("parse query url: %w", err)
	}
	q := u.Query()
	q.Set("q", strings.Join(strings.Fields(productQuery), " "))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query products: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(out.Records))
	for _, r := range out.Records {
		products = append(products, r.toDomain())
	}
	return products, nil
}

func (r productRecord) toDomain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Family,
		Description: r.Description,
		Image:       r.ImageURL,
		InStock:     r.IsActive,
	}
	if r.Pricebook != nil && len(r.Pricebook.Records) > 0 {
		p.Price = r.Pricebook.Records[0].UnitPrice
	}
	return p
}
