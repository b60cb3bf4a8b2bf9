// Package jamfpro provides an HTTP client for the parts of the Jamf Pro API
// needed to send a Return To Service command to a mobile device.
//
// The client covers token issuance (user accounts via Basic auth, or API
// clients via OAuth client credentials), the server version, mobile device
// configuration profiles, mobile device lookups and MDM command submission.
//
// # Usage Example
//
//	client, err := jamfpro.NewClient("https://example.jamfcloud.com")
//	if err != nil {
//	    return err
//	}
//
//	token, err := client.Authenticate(ctx, jamfpro.Credentials{
//	    Identifier: "api-client-id",
//	    Secret:     secret,
//	}, jamfpro.AuthModeOAuth)
//	if err != nil {
//	    return err
//	}
//
//	session := client.Session(token)
//	v, err := session.ServerVersion(ctx)
//	if err == nil && !v.Supported() {
//	    return fmt.Errorf("Jamf Pro %s is too old", v)
//	}
//
// # Identifiers
//
// A mobile device has two identifiers. The Classic API ID is looked up by
// serial number (MobileDeviceID); the management ID used by the MDM commands
// API is looked up from that ID through the v2 mobile devices endpoint
// (ManagementID).
//
// # Wi-Fi Profiles
//
// A Wi-Fi profile is a configuration profile whose payload contains
// com.apple.wifi.managed. The catalog listing carries no payloads, so
// FindWiFiProfiles fetches every profile one after another. On servers with
// many profiles this is the slowest part of a run.
//
// # Error Handling
//
// Every method returns *APIError values. Transport failures are classified
// into network, timeout, DNS, TLS and connection-refused types so callers
// can tell an unreachable server from a missing record.
//
// # Thread Safety
//
// Client and Session hold no mutable state after construction and are safe
// for concurrent use, although a run uses them sequentially.
package jamfpro
