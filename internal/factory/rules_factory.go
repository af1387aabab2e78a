package factory

import (
	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/rules"
	"go.uber.org/zap"
)

// CreateRuleClassifier creates the keyword cascade with any configured
// blacklist additions
func CreateRuleClassifier(cfg *config.Config, logger *zap.Logger) core.RuleClassifier {
	rulesCfg := cfg.GetRules()
	if len(rulesCfg.ExtraBlacklist) > 0 {
		logger.Info("Loaded extra blacklist entries", zap.Strings("entries", rulesCfg.ExtraBlacklist))
	}
	return rules.NewCascade(rulesCfg.ExtraBlacklist, logger)
}
