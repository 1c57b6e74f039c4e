package perenual

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Melonns/PlantifyBE/api/internal/care"
)

// Engine is the structured-lookup care provider. One keyed search per call,
// no retries: this provider's usual failure is "no such species", which
// retrying cannot fix.
type Engine struct {
	APIKey  string
	BaseURL string
	httpc   *http.Client
}

func New(apiKey, baseURL string) *Engine {
	return &Engine{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 20 * time.Second},
	}
}

func (e *Engine) Name() string { return "perenual" }

type speciesListResponse struct {
	Data []struct {
		ID             int      `json:"id"`
		CommonName     string   `json:"common_name"`
		ScientificName []string `json:"scientific_name"`
		Watering       string   `json:"watering"`
		Sunlight       []string `json:"sunlight"`
		Description    string   `json:"description"`
	} `json:"data"`
}

// CareFor searches the species catalog and maps the first record onto the
// canonical profile, translating the provider's enumerated codes into
// display phrases.
func (e *Engine) CareFor(ctx context.Context, scientificName string) (care.Profile, error) {
	if e.APIKey == "" {
		return care.Profile{}, fmt.Errorf("PERENUAL_API_KEY is empty")
	}

	q := url.Values{}
	q.Set("key", e.APIKey)
	q.Set("q", scientificName)
	endpoint := e.BaseURL + "/species-list?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return care.Profile{}, err
	}
	resp, err := e.httpc.Do(req)
	if err != nil {
		return care.Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return care.Profile{}, fmt.Errorf("perenual %d: %s", resp.StatusCode, string(x))
	}

	var out speciesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return care.Profile{}, fmt.Errorf("%w: %v", care.ErrParse, err)
	}
	if len(out.Data) == 0 {
		return care.Profile{}, fmt.Errorf("%w: %q", care.ErrEmpty, scientificName)
	}

	rec := out.Data[0]
	flat := care.Flat{
		Watering:    care.TranslateWatering(rec.Watering),
		Sunlight:    strings.Join(care.TranslateSunlight(rec.Sunlight), ", "),
		Description: rec.Description,
	}
	return care.FromFlat(flat), nil
}
