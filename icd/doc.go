// Package icd is the gateway to the WHO ICD-11 classification service. It
// handles the OAuth2 client-credentials exchange, keyword search with the
// flexisearch fallback, and entity detail lookup. Failures are reported as
// typed errors so callers can degrade instead of crashing: authentication,
// timeout, HTTP status, and parse errors are all distinguishable.
package icd
