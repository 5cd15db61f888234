// Package convive is the embeddable Go client for the Convive
// event-coordination service. It wraps the HTTP repository and the
// two-tap confirmation gate that guards irreversible event transitions
// (publish, cancel, complete, purge, restore).
//
// Usage:
//
//	cv, err := convive.New(convive.WithToken(os.Getenv("CONVIVE_TOKEN")))
//	gate := cv.Gate("ev_42")
//	gate.Tap(ctx, convive.ActionPublish) // arms
//	gate.Tap(ctx, convive.ActionPublish) // confirms and submits
//
// Each event-detail view owns one Gate: create it when the view appears
// and drop it when the view goes away. One action at a time may be armed,
// and an arming decays after the configured expiry window.
//
// The SDK links directly against internal packages for zero extra
// indirection. External users import github.com/convive/convive/sdk/go/convive.
package convive
