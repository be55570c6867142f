package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500

	unknownUserAgent = "unavailable"
)

type ActivityService struct {
	repo ports.ActivityRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now, log: log}
}

// Record stores one activity entry and bumps the matching daily counter.
// A failed counter update is logged but does not fail the call.
func (s *ActivityService) Record(ctx context.Context, in ports.ActivityInput) error {
	if !in.Action.IsKnown() {
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidActivity, in.Action)
	}

	ip := strings.TrimSpace(in.IPAddress)
	if ip == "" {
		ip = domain.IPUnavailable
	}
	ua := strings.TrimSpace(in.UserAgent)
	if ua == "" {
		ua = unknownUserAgent
	}
	device := DetectDevice(ua)
	now := s.now().UTC()

	entry := &domain.ActivityLog{
		Action:      in.Action,
		Description: in.Description,
		IPAddress:   ip,
		UserAgent:   ua,
		DeviceType:  device.Type,
		DeviceName:  device.Name,
		DecreeID:    in.DecreeID,
		Metadata:    in.Metadata,
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	if counter := domain.CounterFor(in.Action); counter != "" {
		if err := s.repo.IncrementDaily(ctx, now.Format(dayLayout), counter); err != nil {
			s.log.Warn().Err(err).Str("action", string(in.Action)).Msg("failed to update daily statistics")
		}
	}

	s.log.Debug().
		Str("action", string(in.Action)).
		Str("ip", ip).
		Str("device", device.Name).
		Msg("activity recorded")

	return nil
}

// List returns the newest entries first, optionally restricted to one action.
func (s *ActivityService) List(ctx context.Context, action string, limit int) ([]domain.ActivityLog, error) {
	a := domain.ActivityAction(strings.ToUpper(strings.TrimSpace(action)))
	if a != "" && !a.IsKnown() {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidFilter, action)
	}
	_, limit = normalizePage(1, limit, defaultLogLimit, maxLogLimit)

	logs, err := s.repo.List(ctx, a, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	if logs == nil {
		logs = []domain.ActivityLog{}
	}
	return logs, nil
}

// Device is the client classification derived from a user agent.
type Device struct {
	Type string // Tablet, Mobile or Desktop
	Name string // browser, followed by the operating system in parentheses
}

var (
	tabletRe = regexp.MustCompile(`(?i)(tablet|ipad|playbook|silk)`)
	mobileRe = regexp.MustCompile(`(?i)(mobile|iphone|ipod|android|blackberry|opera mini|windows phone)`)
)

// DetectDevice classifies a user agent string.
func DetectDevice(userAgent string) Device {
	ua := strings.ToLower(userAgent)

	d := Device{Type: "Desktop", Name: "Unknown"}
	switch {
	case tabletRe.MatchString(ua), strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		d.Type = "Tablet"
	case mobileRe.MatchString(ua):
		d.Type = "Mobile"
	}

	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge/"):
		d.Name = "Microsoft Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		d.Name = "Opera"
	case strings.Contains(ua, "firefox/"):
		d.Name = "Mozilla Firefox"
	case strings.Contains(ua, "chrome/"):
		d.Name = "Google Chrome"
	case strings.Contains(ua, "safari/"):
		d.Name = "Safari"
	}

	// First match wins: Android user agents report Linux and iOS ones MacOS.
	switch {
	case strings.Contains(ua, "windows"):
		d.Name += " (Windows)"
	case strings.Contains(ua, "mac os"):
		d.Name += " (MacOS)"
	case strings.Contains(ua, "linux"):
		d.Name += " (Linux)"
	case strings.Contains(ua, "android"):
		d.Name += " (Android)"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		d.Name += " (iOS)"
	}

	return d
}
