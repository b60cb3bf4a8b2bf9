// Package rts runs the Return To Service chain against a Jamf Pro server.
//
// A run moves forward through a fixed sequence of stages:
//
//	Authenticating → CheckingVersion → ResolvingProfile →
//	ResolvingDevice → ResolvingManagementID → Dispatching
//
// and ends in Succeeded or Failed. The first failing stage ends the run;
// later stages never reach the network. Every failure is reported as a
// *Failure carrying a FailureKind and the jamfpro error that caused it.
//
// # Usage Example
//
//	client, _ := jamfpro.NewClient("https://example.jamfcloud.com")
//	runner := rts.NewRunner(client, rts.WithObserver(rts.LogObserver{}))
//
//	result := runner.Run(ctx, rts.Request{
//	    Credentials: jamfpro.Credentials{Identifier: "admin", Secret: secret},
//	    AuthMode:    jamfpro.AuthModeBasic,
//	    Serial:      "C02XYZ",
//	    Profile:     rts.ProfileByName("CorpWiFi"),
//	})
//	fmt.Println(result.Title, result.Message)
//
// # Profiles
//
// A profile is referenced explicitly by ID or by name. By ID, the profile is
// fetched directly. By name, the whole catalog is scanned for Wi-Fi profiles
// and a Selector picks one of the candidates. In both cases the payload must
// contain the managed Wi-Fi marker before it is sent.
package rts
