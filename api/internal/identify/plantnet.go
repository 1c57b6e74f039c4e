package identify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/Melonns/PlantifyBE/api/internal/util"
)

// Client talks to the PlantNet v2 identification API.
type Client struct {
	APIKey  string
	BaseURL string
	Lang    string
	httpc   *http.Client
}

func New(apiKey, baseURL, lang string) *Client {
	return &Client{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: strings.TrimRight(baseURL, "/"),
		Lang:    lang,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type plantNetResponse struct {
	Results []struct {
		Score   float64 `json:"score"`
		Species struct {
			ScientificName              string   `json:"scientificName"`
			ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
			CommonNames                 []string `json:"commonNames"`
		} `json:"species"`
	} `json:"results"`
}

// Identify uploads the image and returns candidates in provider order
// (descending score). Zero results map to ErrNoMatch, everything else that
// goes wrong maps to ErrUpstream with the underlying detail wrapped.
func (c *Client) Identify(ctx context.Context, image []byte, mediaType, filename string) ([]Candidate, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("PLANTNET_API_KEY is empty")
	}
	if filename == "" {
		filename = "image.jpg"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, filename))
	hdr.Set("Content-Type", util.PickMIME(mediaType, image))
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("api-key", c.APIKey)
	q.Set("lang", c.Lang)
	endpoint := c.BaseURL + "/identify/all?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// PlantNet answers 404 when no species matches the image.
		return nil, ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: plantnet %d: %s", ErrUpstream, resp.StatusCode, string(x))
	}

	var out plantNetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", ErrUpstream, err)
	}
	if len(out.Results) == 0 {
		return nil, ErrNoMatch
	}

	cands := make([]Candidate, 0, len(out.Results))
	for _, r := range out.Results {
		cands = append(cands, Candidate{
			ScientificName: r.Species.ScientificName,
			CleanName:      r.Species.ScientificNameWithoutAuthor,
			CommonNames:    r.Species.CommonNames,
			Score:          r.Score,
		})
	}
	return cands, nil
}
