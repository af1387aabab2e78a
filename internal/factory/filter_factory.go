package factory

import (
	"fmt"

	"github.com/mikey/llm-mail-classifier/internal/adapters/filter"
	"github.com/mikey/llm-mail-classifier/internal/config"
	"github.com/mikey/llm-mail-classifier/internal/core"
	"github.com/mikey/llm-mail-classifier/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.ClassificationService
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.ClassificationService) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.FilterType {
	case "postfix":
		return filter.NewPostfixFilter(f.service, f.logger, filter.PostfixFilterOptions{
			ListenAddr: serverCfg.ListenAddress,
			Headers: filter.HeaderNames{
				Category: serverCfg.CategoryHeader,
				Source:   serverCfg.SourceHeader,
			},
			ModifySubject:  serverCfg.ModifySubject,
			PostfixAddr:    serverCfg.Postfix.Address,
			PostfixPort:    serverCfg.Postfix.Port,
			PostfixEnabled: serverCfg.Postfix.Enabled,
		}), nil
	case "cli":
		return filter.NewCliFilter(f.service, f.logger, f.cfg.GetBool("cli.verbose"))
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", serverCfg.FilterType)
	}
}
