// Package flags provides shared pflag helpers for toggle and choice flags.
package flags
