package jamfpro

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// SendReturnToService posts an ERASE_DEVICE command with a return to service
// block for managementID. It returns the raw HTTP status code; interpreting it
// is left to the caller (201 means the command was accepted).
// An error is returned only when no status was received.
func (s *Session) SendReturnToService(ctx context.Context, managementID, wifiPayload string) (int, error) {
	cmd := NewReturnToServiceCommand(managementID, wifiPayload)
	body, err := json.MarshalIndent(cmd, "", "  ")
	if err != nil {
		return 0, NewValidationError("failed to encode command: " + err.Error())
	}

	req, err := s.client.newRequest(ctx, http.MethodPost, PathMDMCommands, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, _, err := s.client.do(req)
	if err != nil && status == 0 {
		return 0, err
	}

	logging.Info("Return to service command sent",
		zap.String("management_id", managementID),
		zap.Int("status_code", status),
	)
	return status, nil
}
