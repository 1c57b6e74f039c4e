package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Melonns/PlantifyBE/api/internal/care"
	"github.com/Melonns/PlantifyBE/api/internal/care/gemini"
	"github.com/Melonns/PlantifyBE/api/internal/care/perenual"
	"github.com/Melonns/PlantifyBE/api/internal/config"
	"github.com/Melonns/PlantifyBE/api/internal/identify"
	"github.com/Melonns/PlantifyBE/api/internal/scan"
)

var httpc = &http.Client{Timeout: 60 * time.Second}

func main() {
	cfg := config.Load()
	if cfg.TelegramBotToken == "" {
		log.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	identifier := identify.New(cfg.PlantNetAPIKey, cfg.PlantNetBaseURL, cfg.Lang)
	var engine care.Engine
	if strings.EqualFold(cfg.CareProvider, "perenual") {
		engine = perenual.New(cfg.PerenualAPIKey, cfg.PerenualBaseURL)
	} else {
		engine = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.CareMaxAttempts, cfg.CareBackoff)
	}
	scanner := scan.New(identifier, engine, cfg.ConfidenceThreshold)

	log.Printf("plantify bot polling as @%s", bot.Self.UserName)
	runPolling(context.Background(), bot, func(upd tgbotapi.Update) {
		handleUpdate(bot, scanner, cfg.TelegramBotToken, upd)
	})
}

func handleUpdate(bot *tgbotapi.BotAPI, scanner *scan.Scanner, token string, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		switch upd.Message.Command() {
		case "start":
			send(bot, cid, "Kirim foto tanaman, nanti saya kenali jenis dan cara merawatnya.")
		default:
			send(bot, cid, "Perintah tidak dikenal. Cukup kirim foto tanaman.")
		}
		return
	}

	if len(upd.Message.Photo) == 0 {
		return
	}
	send(bot, cid, "Foto diterima, sedang diproses…")

	ph := upd.Message.Photo[len(upd.Message.Photo)-1]
	tf, err := bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		send(bot, cid, "Gagal mengambil file: "+err.Error())
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", token, tf.FilePath)
	img, err := download(url)
	if err != nil {
		send(bot, cid, "Gagal mengunduh foto: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	result, err := scanner.Scan(ctx, scan.Request{Image: img, Filename: "photo.jpg"})
	switch {
	case errors.Is(err, identify.ErrNoMatch):
		send(bot, cid, "Tanaman tidak ditemukan. Coba foto yang lebih jelas.")
		return
	case err != nil:
		send(bot, cid, "Gagal memproses gambar: "+err.Error())
		return
	}

	send(bot, cid, formatResult(result))
}

func formatResult(r scan.Result) string {
	if !r.IsPlant {
		return fmt.Sprintf("Tanaman tidak dapat dikenali (keyakinan %.0f%%).", r.Confidence*100)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🌿 %s\n%s (keyakinan %.0f%%)\n", r.CommonName, r.ScientificName, r.Confidence*100)
	if r.Care != nil {
		labels := []string{"Pupuk", "Air", "Cahaya", "Suhu", "Media tanam", "Ganti pot", "Masalah umum"}
		for i, t := range r.Care.Topics() {
			fmt.Fprintf(&b, "\n%s: %s", labels[i], t.Instruction)
		}
	}
	return b.String()
}

func send(bot *tgbotapi.BotAPI, chatID int64, text string) {
	_, _ = bot.Send(tgbotapi.NewMessage(chatID, text))
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Printf("polling error: %v; retry in %v", err, d)
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}
