// file: internals/features/attendance/attendance/service/collaborators.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	helperOSS "lembagaku_backend/internals/helpers/oss"
)

// Di bawah confidence ini kemiripan wajah dicatat sebagai warning,
// tapi check-in/check-out tetap jalan (verifikasi best-effort, bukan gate).
const MinFaceConfidence = 70.0

type StoredPhoto struct {
	URL string
	Key string
}

// PhotoStore menyimpan foto absensi dan mengembalikan URL publik + object key.
// Gagal upload = gagal request (tidak ada record yang ditulis tanpa foto).
type PhotoStore interface {
	StorePhoto(ctx context.Context, fh *multipart.FileHeader, keyPrefix string) (StoredPhoto, error)
}

// FaceScorer membandingkan foto kandidat dengan foto referensi user,
// mengembalikan confidence 0–100.
type FaceScorer interface {
	Score(ctx context.Context, referenceURL, candidateURL string) (float64, error)
}

/* ==========================
   OSS photo store
========================== */

type OSSPhotoStore struct {
	Svc *helperOSS.OSSService
}

func (p *OSSPhotoStore) StorePhoto(ctx context.Context, fh *multipart.FileHeader, keyPrefix string) (StoredPhoto, error) {
	url, key, err := p.Svc.UploadAsWebP(ctx, fh, keyPrefix)
	if err != nil {
		return StoredPhoto{}, err
	}
	return StoredPhoto{URL: url, Key: key}, nil
}

/* ==========================
   HTTP face scorer
========================== */

// HTTPFaceScorer memanggil layanan face-match eksternal.
// POST {reference_url, candidate_url} → {confidence}.
type HTTPFaceScorer struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPFaceScorer(endpoint string) *HTTPFaceScorer {
	return &HTTPFaceScorer{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *HTTPFaceScorer) Score(ctx context.Context, referenceURL, candidateURL string) (float64, error) {
	if f.Endpoint == "" {
		return 0, fmt.Errorf("face scorer endpoint belum diset")
	}

	payload, _ := json.Marshal(map[string]string{
		"reference_url": referenceURL,
		"candidate_url": candidateURL,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("face scorer status %d", resp.StatusCode)
	}

	var out struct {
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Confidence, nil
}

// bestEffortFaceScore membungkus scorer: kegagalan apapun → nil
// ("tidak ada confidence"), tidak pernah menggagalkan request.
func bestEffortFaceScore(ctx context.Context, scorer FaceScorer, referenceURL, candidateURL string) *float64 {
	if scorer == nil || strings.TrimSpace(referenceURL) == "" {
		return nil
	}
	score, err := scorer.Score(ctx, referenceURL, candidateURL)
	if err != nil {
		log.Printf("[WARN] face scoring gagal, lanjut tanpa confidence: %v", err)
		return nil
	}
	if score < MinFaceConfidence {
		log.Printf("[WARN] face confidence rendah (%.1f < %.1f) untuk %s", score, MinFaceConfidence, candidateURL)
	}
	return &score
}
