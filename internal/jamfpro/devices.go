package jamfpro

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// MobileDeviceID looks up the Classic API device ID for a serial number
func (s *Session) MobileDeviceID(ctx context.Context, serial string) (int, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return 0, NewValidationError("serial number is required")
	}
	path := PathMobileDeviceBySerial + url.PathEscape(serial)

	var resp mobileDeviceResponse
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return 0, err
	}

	id := resp.MobileDevice.General.ID
	if id == 0 {
		return 0, NewNotFoundError(path, fmt.Sprintf("no mobile device with serial number %s", serial))
	}

	logging.Info("Mobile ID found", zap.String("serial", serial), zap.Int("device_id", id))
	return id, nil
}

// ManagementID looks up the management ID used by the MDM commands API
// for the device with the given Classic API ID.
func (s *Session) ManagementID(ctx context.Context, deviceID int) (string, error) {
	path := PathMobileDeviceDetail + strconv.Itoa(deviceID)

	var resp mobileDeviceDetailResponse
	if err := s.getJSON(ctx, path, &resp); err != nil {
		return "", err
	}

	if resp.ManagementID == "" {
		return "", NewNotFoundError(path, fmt.Sprintf("mobile device %d has no management ID", deviceID))
	}

	logging.Info("Management ID found", zap.Int("device_id", deviceID), zap.String("management_id", resp.ManagementID))
	return resp.ManagementID, nil
}
