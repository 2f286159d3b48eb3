// Package task defines the contract every pipeline step implements, the
// structured Result it reports and the error taxonomy shared by all steps.
package task
