// Package config loads and validates YAML configuration for the GE market
// data tools.
//
// Config files support ${VAR} environment substitution so secrets (the
// database password in particular) can stay out of the file itself.
package config
