package onion

// Version is the release of the runtime. Overridden at build time with
// -ldflags "-X github.com/aretw0/onion.Version=...".
var Version = "0.1.0"
