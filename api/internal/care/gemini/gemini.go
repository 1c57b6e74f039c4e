package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Melonns/PlantifyBE/api/internal/care"
	"github.com/Melonns/PlantifyBE/api/internal/util"
)

const systemPrompt = `Anda adalah seorang ahli botani untuk aplikasi Plantify.
Berikan data perawatan untuk tanaman dengan nama ilmiah yang diberikan pengguna.

Jawab HANYA dalam format JSON yang valid.
JANGAN gunakan markdown (seperti ` + "```json" + `).
JANGAN tambahkan teks pembuka atau penutup.
Gunakan Bahasa Indonesia yang ringkas dan jelas.

Untuk setiap dari 7 kunci (pupuk, air, cahaya, suhu, media_tanam, ganti_pot, masalah_umum),
berikan sebuah objek yang berisi dua sub-kunci:
1. "instruksi": Ringkasan singkat dalam 3-5 kata (contoh: "Siram 2-3 minggu sekali").
2. "detail": Penjelasan detail dari instruksi tersebut.

Tambahkan juga kunci opsional "ringkasan" berisi objek dengan sub-kunci
"deskripsi" (gambaran singkat tanaman), "status" (mis. "populer", "langka"),
"keamanan" (catatan toksisitas untuk anak/hewan), dan "fungsi" (mis. "tanaman hias dalam ruangan").

Format JSON harus seperti ini:
{
  "pupuk": {"instruksi": "...", "detail": "..."},
  "air": {"instruksi": "...", "detail": "..."},
  "cahaya": {"instruksi": "...", "detail": "..."},
  "suhu": {"instruksi": "...", "detail": "..."},
  "media_tanam": {"instruksi": "...", "detail": "..."},
  "ganti_pot": {"instruksi": "...", "detail": "..."},
  "masalah_umum": {"instruksi": "...", "detail": "..."},
  "ringkasan": {"deskripsi": "...", "status": "...", "keamanan": "...", "fungsi": "..."}
}

Jika Anda tidak tahu tanamannya, kembalikan JSON dengan nilai "Info tidak tersedia"
untuk "instruksi" dan "detail" di semua 7 kunci.`

// Engine is the generative care provider. A fresh API client is created per
// call, same as the other Gemini integrations in this codebase.
type Engine struct {
	APIKey   string
	Model    string
	Attempts int
	Backoff  time.Duration

	sleep    func(time.Duration)
	generate func(ctx context.Context, scientificName string) (string, error)
}

func New(apiKey, model string, attempts int, backoff time.Duration) *Engine {
	e := &Engine{
		APIKey:   strings.TrimSpace(apiKey),
		Model:    strings.TrimSpace(model),
		Attempts: attempts,
		Backoff:  backoff,
		sleep:    time.Sleep,
	}
	e.generate = e.generateContent
	return e
}

func (e *Engine) Name() string { return "gemini" }

// CareFor asks the model for the seven-topic care JSON. Overload responses
// are retried with exponential backoff; a reply that is not valid JSON is a
// terminal ErrParse (resending the same prompt would not fix it).
func (e *Engine) CareFor(ctx context.Context, scientificName string) (care.Profile, error) {
	if e.APIKey == "" {
		return care.Profile{}, errors.New("GEMINI_API_KEY is empty")
	}

	var raw string
	err := care.WithRetry(ctx, e.Attempts, e.Backoff, e.sleep, func(ctx context.Context) error {
		txt, err := e.generate(ctx, scientificName)
		if err != nil {
			return classifyErr(err)
		}
		raw = txt
		return nil
	})
	if err != nil {
		return care.Profile{}, err
	}

	txt := util.StripCodeFences(raw)
	var p care.Profile
	if err := json.Unmarshal([]byte(txt), &p); err != nil {
		return care.Profile{}, fmt.Errorf("%w: %v", care.ErrParse, err)
	}
	return p, nil
}

func (e *Engine) generateContent(ctx context.Context, scientificName string) (string, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	user := fmt.Sprintf("Nama ilmiah tanaman: %q. Jawab hanya JSON sesuai format.", scientificName)
	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", err
	}
	txt := firstText(resp)
	if txt == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return txt, nil
}

// classifyErr maps the provider's service-busy signals onto ErrOverloaded so
// the retry loop can tell them apart from permanent failures.
func classifyErr(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusServiceUnavailable || gerr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", care.ErrOverloaded, err)
		}
		return err
	}
	if s := strings.ToLower(err.Error()); strings.Contains(s, "overloaded") || strings.Contains(s, "unavailable") {
		return fmt.Errorf("%w: %v", care.ErrOverloaded, err)
	}
	return err
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
