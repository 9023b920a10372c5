// Package config turns viper settings into the options of a view-model
// build. Missing keys keep their built-in defaults; invalid values are
// reported as user errors.
package config

import (
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
)

// Viper keys read by ViewOptions.
const (
	KeyScoring        = "scoring"
	KeyRankingWeights = "ranking.weights"
	KeyCatalog        = "ranking.catalog"
	KeyThresholds     = "insight.thresholds"
	KeyRoles          = "insight.roles"
	KeyTopN           = "insight.top"
)

// ViewOptions decodes scoring weights and ceilings, decision weights, the
// policy catalog, insight thresholds, role cards and the top-N length.
func ViewOptions(v *viper.Viper) (insight.Options, error) {
	opts := insight.DefaultOptions()

	if err := v.UnmarshalKey(KeyScoring, &opts.Priority); err != nil {
		return opts, apperr.Userf("invalid %s settings: %v", KeyScoring, err)
	}
	if err := opts.Priority.Validate(); err != nil {
		return opts, apperr.Userf("invalid %s settings: %v", KeyScoring, err)
	}

	if err := v.UnmarshalKey(KeyRankingWeights, &opts.Weights); err != nil {
		return opts, apperr.Userf("invalid %s: %v", KeyRankingWeights, err)
	}
	if err := opts.Weights.Validate(); err != nil {
		return opts, apperr.Userf("invalid %s: %v", KeyRankingWeights, err)
	}

	catalog, err := decision.LoadCatalog(v.GetString(KeyCatalog))
	if err != nil {
		return opts, apperr.Userf("invalid %s: %v", KeyCatalog, err)
	}
	opts.Catalog = catalog

	if err := v.UnmarshalKey(KeyThresholds, &opts.Thresholds); err != nil {
		return opts, apperr.Userf("invalid %s: %v", KeyThresholds, err)
	}

	if v.IsSet(KeyRoles) {
		var roles []insight.RoleSpec
		if err := v.UnmarshalKey(KeyRoles, &roles); err != nil {
			return opts, apperr.Userf("invalid %s: %v", KeyRoles, err)
		}
		opts.Roles = roles
	}

	if v.IsSet(KeyTopN) {
		n := v.GetInt(KeyTopN)
		if n <= 0 {
			return opts, apperr.Userf("%s must be positive (got %d)", KeyTopN, n)
		}
		opts.TopN = n
	}
	return opts, nil
}
