package jamfpro

import (
	"encoding/base64"
	"strings"
)

// API paths used by the client. Classic API endpoints live under /JSSResource,
// Jamf Pro API endpoints under /api.
const (
	PathOAuthToken            = "/api/oauth/token"
	PathBasicToken            = "/api/v1/auth/token"
	PathVersion               = "/api/v1/jamf-pro-version"
	PathConfigurationProfiles = "/JSSResource/mobiledeviceconfigurationprofiles"
	PathMobileDeviceBySerial  = "/JSSResource/mobiledevices/serialnumber/"
	PathMobileDeviceDetail    = "/api/v2/mobile-devices/"
	PathMDMCommands           = "/api/preview/mdm/commands"
)

// WiFiPayloadMarker identifies a managed Wi-Fi payload inside a
// configuration profile. Matching is case-insensitive.
const WiFiPayloadMarker = "com.apple.wifi.managed"

// Credentials are the identifier/secret pair used to obtain a token.
// Identifier is a username (basic mode) or API client ID (OAuth mode).
type Credentials struct {
	Identifier string
	Secret     string
}

// BasicToken returns base64("identifier:secret") for the Authorization: Basic header
func (c Credentials) BasicToken() string {
	return base64.StdEncoding.EncodeToString([]byte(c.Identifier + ":" + c.Secret))
}

// Token is an opaque bearer token scoped to one run
type Token string

// ProfileSummary is one entry of the configuration profile catalog.
// The catalog does not include payloads.
type ProfileSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ConfigurationProfile is a mobile device configuration profile with its payload
type ConfigurationProfile struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Payload string `json:"payloads"`
}

// IsWiFi reports whether the profile payload carries a managed Wi-Fi payload
func (p *ConfigurationProfile) IsWiFi() bool {
	return p != nil && IsWiFiPayload(p.Payload)
}

// IsWiFiPayload reports whether payload contains the managed Wi-Fi marker,
// ignoring case.
func IsWiFiPayload(payload string) bool {
	return strings.Contains(strings.ToLower(payload), WiFiPayloadMarker)
}

// Response shapes. Field names follow the Jamf Pro wire format.

type profileListResponse struct {
	ConfigurationProfiles []ProfileSummary `json:"configuration_profiles"`
}

type profileResponse struct {
	ConfigurationProfile struct {
		General ConfigurationProfile `json:"general"`
	} `json:"configuration_profile"`
}

type versionResponse struct {
	Version string `json:"version"`
}

type mobileDeviceResponse struct {
	MobileDevice struct {
		General struct {
			ID int `json:"id"`
		} `json:"general"`
	} `json:"mobile_device"`
}

type mobileDeviceDetailResponse struct {
	ID           string `json:"id"`
	SerialNumber string `json:"serialNumber"`
	ManagementID string `json:"managementId"`
}

// ReturnToServiceCommand is the body posted to the MDM commands endpoint
type ReturnToServiceCommand struct {
	ClientData  []CommandClient `json:"clientData"`
	CommandData CommandData     `json:"commandData"`
}

// CommandClient targets one device by management ID
type CommandClient struct {
	ManagementID string `json:"managementId"`
}

// CommandData describes the command to run
type CommandData struct {
	CommandType     string          `json:"commandType"`
	ReturnToService ReturnToService `json:"returnToService"`
}

// ReturnToService is the erase-and-reprovision block of an ERASE_DEVICE command
type ReturnToService struct {
	Enabled         bool   `json:"enabled"`
	WiFiProfileData string `json:"wifiProfileData"`
}

// CommandTypeEraseDevice is the MDM command type for Return To Service
const CommandTypeEraseDevice = "ERASE_DEVICE"

// NewReturnToServiceCommand builds an erase command for managementID with the
// Wi-Fi payload base64-encoded into the return to service block.
func NewReturnToServiceCommand(managementID, wifiPayload string) *ReturnToServiceCommand {
	return &ReturnToServiceCommand{
		ClientData: []CommandClient{{ManagementID: managementID}},
		CommandData: CommandData{
			CommandType: CommandTypeEraseDevice,
			ReturnToService: ReturnToService{
				Enabled:         true,
				WiFiProfileData: base64.StdEncoding.EncodeToString([]byte(wifiPayload)),
			},
		},
	}
}
