package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/lnd-backend/internal/pkg/logger"
	"github.com/yungbote/lnd-backend/internal/platform/objectstore"
)

type CertificateInput struct {
	CompletionID  uuid.UUID
	RecipientName string
	TrainingTitle string
	Hours         float64
	CompletedAt   time.Time
}

type CertificateService interface {
	Render(in CertificateInput) ([]byte, error)
	// Issue renders the certificate, stores it and returns its URL.
	Issue(ctx context.Context, in CertificateInput) (string, error)
}

type certificateService struct {
	log   *logger.Logger
	store objectstore.Store

	// truetype faces cache glyphs and are not safe for concurrent use.
	mu        sync.Mutex
	titleFace font.Face
	nameFace  font.Face
	bodyFace  font.Face
}

// NewCertificateService loads fontPath when set, otherwise the embedded Go
// Regular face.
func NewCertificateService(log *logger.Logger, store objectstore.Store, fontPath string) (CertificateService, error) {
	serviceLog := log.With("service", "CertificateService")
	fontBytes := goregular.TTF
	if strings.TrimSpace(fontPath) != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = b
		serviceLog.Info("Loading certificate font", "font", fontPath)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return &certificateService{
		log:       serviceLog,
		store:     store,
		titleFace: face(56),
		nameFace:  face(44),
		bodyFace:  face(24),
	}, nil
}

const (
	certWidth  = 1400
	certHeight = 990
)

var (
	certInk    = color.NRGBA{R: 0x1f, G: 0x2a, B: 0x44, A: 0xff}
	certAccent = color.NRGBA{R: 0xb0, G: 0x8d, B: 0x57, A: 0xff}
)

func (cs *certificateService) Render(in CertificateInput) ([]byte, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	dc := gg.NewContext(certWidth, certHeight)
	w, h := float64(certWidth), float64(certHeight)

	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(certAccent)
	dc.SetLineWidth(12)
	dc.DrawRectangle(30, 30, w-60, h-60)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(54, 54, w-108, h-108)
	dc.Stroke()

	dc.SetColor(certInk)
	dc.SetFontFace(cs.titleFace)
	dc.DrawStringAnchored("Certificate of Completion", w/2, 220, 0.5, 0.5)

	dc.SetFontFace(cs.bodyFace)
	dc.DrawStringAnchored("This certifies that", w/2, 340, 0.5, 0.5)

	dc.SetFontFace(cs.nameFace)
	name := strings.TrimSpace(in.RecipientName)
	if name == "" {
		name = "Participant"
	}
	dc.DrawStringAnchored(name, w/2, 430, 0.5, 0.5)
	dc.SetColor(certAccent)
	dc.DrawLine(w/2-320, 470, w/2+320, 470)
	dc.Stroke()

	dc.SetColor(certInk)
	dc.SetFontFace(cs.bodyFace)
	dc.DrawStringAnchored("has successfully completed", w/2, 540, 0.5, 0.5)
	dc.DrawStringWrapped(in.TrainingTitle, w/2, 610, 0.5, 0.5, w-300, 1.4, gg.AlignCenter)
	dc.DrawStringAnchored(fmt.Sprintf("%s learning hours", formatHours(in.Hours)), w/2, 700, 0.5, 0.5)
	dc.DrawStringAnchored(in.CompletedAt.UTC().Format("January 2, 2006"), w/2, 760, 0.5, 0.5)
	dc.DrawStringAnchored("Certificate ID: "+in.CompletionID.String(), w/2, h-120, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (cs *certificateService) Issue(ctx context.Context, in CertificateInput) (string, error) {
	if cs.store == nil {
		return "", fmt.Errorf("certificate store not configured")
	}
	png, err := cs.Render(in)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("certificates/%d/%s.png", in.CompletedAt.UTC().Year(), in.CompletionID)
	url, err := cs.store.Put(ctx, key, bytes.NewReader(png))
	if err != nil {
		return "", fmt.Errorf("store certificate: %w", err)
	}
	cs.log.Info("certificate issued", "completion_id", in.CompletionID, "url", url)
	return url, nil
}
