package urls

// Documentation URLs used in troubleshooting output.
// All URLs point to Jamf's public documentation site.

// APIRolesAndClients explains API roles and client credentials,
// the auth mode selected with --api-roles.
const APIRolesAndClients = "https://learn.jamf.com/en-US/bundle/jamf-pro-documentation-current/page/API_Roles_and_Clients.html"

// ReturnToService describes the Return to Service workflow
// and the privileges it needs.
const ReturnToService = "https://learn.jamf.com/en-US/bundle/technical-articles/page/Return_to_Service.html"

// ClassicAPIPrivileges lists the Classic API privileges required to read
// mobile devices and configuration profiles.
const ClassicAPIPrivileges = "https://developer.jamf.com/jamf-pro/docs/classic-api-minimum-required-privileges-and-endpoint-mapping"

// GettingStarted is the quick start for configuring rtsctl against a server.
const GettingStarted = "https://github.com/muurk/rtsctl#getting-started"
