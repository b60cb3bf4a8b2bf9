package jamfpro

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// ConfigurationProfile fetches one mobile device configuration profile with its payload.
// A profile without a payload is reported as not found.
func (s *Session) ConfigurationProfile(ctx context.Context, id int) (*ConfigurationProfile, error) {
	path := PathConfigurationProfiles + "/id/" + strconv.Itoa(id)

	var resp profileResponse
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}

	profile := resp.ConfigurationProfile.General
	if profile.Payload == "" {
		return nil, NewNotFoundError(path, fmt.Sprintf("configuration profile %d has no payload", id))
	}

	logging.Debug("Configuration profile received", zap.Int("id", profile.ID), zap.String("name", profile.Name))
	return &profile, nil
}

// ConfigurationProfiles lists the configuration profile catalog (IDs and names only)
func (s *Session) ConfigurationProfiles(ctx context.Context) ([]ProfileSummary, error) {
	var resp profileListResponse
	if err := s.getJSON(ctx, PathConfigurationProfiles, &resp); err != nil {
		return nil, err
	}

	logging.Info("Configuration profiles listed", zap.Int("count", len(resp.ConfigurationProfiles)))
	return resp.ConfigurationProfiles, nil
}

// ScanProgressFunc is called after each catalog entry has been checked.
// done counts checked entries (1-based), total is the catalog size.
type ScanProgressFunc func(done, total int, entry ProfileSummary, matched bool)

// WiFiScan is the outcome of a catalog scan
type WiFiScan struct {
	// Candidates are the Wi-Fi profiles in catalog order
	Candidates []*ConfigurationProfile

	// Scanned is the catalog size
	Scanned int

	// Skipped lists catalog entries whose detail could not be fetched
	Skipped []ProfileSummary
}

// Found reports whether at least one Wi-Fi profile was found
func (w *WiFiScan) Found() bool {
	return w != nil && len(w.Candidates) > 0
}

// FindWiFiProfiles lists the catalog and fetches each profile's detail in
// catalog order, keeping those whose payload contains the Wi-Fi marker.
// The catalog names are never used to decide inclusion. Detail requests are
// issued one at a time; a failed detail excludes that entry only.
func (s *Session) FindWiFiProfiles(ctx context.Context, onProgress ScanProgressFunc) (*WiFiScan, error) {
	catalog, err := s.ConfigurationProfiles(ctx)
	if err != nil {
		return nil, err
	}

	scan := &WiFiScan{Scanned: len(catalog)}
	for i, entry := range catalog {
		if err := ctx.Err(); err != nil {
			return nil, NewNetworkError(PathConfigurationProfiles, "scan interrupted", err)
		}

		matched := false
		profile, err := s.ConfigurationProfile(ctx, entry.ID)
		switch {
		case err != nil:
			logging.Warn("Could not fetch configuration profile", zap.Int("id", entry.ID), zap.Error(err))
			scan.Skipped = append(scan.Skipped, entry)
		case profile.IsWiFi():
			matched = true
			if profile.ID == 0 {
				profile.ID = entry.ID
			}
			if profile.Name == "" {
				profile.Name = entry.Name
			}
			scan.Candidates = append(scan.Candidates, profile)
			logging.Info("Profile has a Wi-Fi payload", zap.Int("id", entry.ID))
		default:
			logging.Debug("Profile has no Wi-Fi payload", zap.Int("id", entry.ID))
		}

		if onProgress != nil {
			onProgress(i+1, len(catalog), entry, matched)
		}
	}

	return scan, nil
}
