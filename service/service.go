package service

import (
	"context"
	"errors"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tableview/pinning"
	"github.com/goliatone/go-tableview/pkg/types"
	"github.com/goliatone/go-tableview/records"
	"github.com/goliatone/go-tableview/tables"
	"golang.org/x/text/language"
)

// ErrServiceNotReady is returned by HealthCheck when required dependencies
// are missing.
var ErrServiceNotReady = errors.New("go-tableview: service not ready")

// Service is the entry point for go-tableview. It wires the host supplied
// ports into per-table sessions.
type Service struct {
	cfg Config
}

// Config captures the dependencies shared by every session. Only
// TableService and Store are required.
type Config struct {
	TableService    types.TableService
	Store           types.Store
	Notifier        types.Notifier
	Logger          types.Logger
	Clock           types.Clock
	Downloader      types.Downloader
	FeatureGate     featuregate.FeatureGate
	Masker          *masker.Masker
	PinningSettings *pinning.SettingsPatch
	PageSize        int
	Locale          language.Tag
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	return &Service{cfg: normalizeConfig(cfg)}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = types.NopNotifier{}
	}
	if cfg.Masker == nil {
		cfg.Masker = records.DefaultMasker()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = records.DefaultPageSize
	}
	return cfg
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil && s.cfg.TableService != nil && s.cfg.Store != nil
}

// HealthCheck surfaces missing configuration.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Ready() {
		if s == nil || s.cfg.TableService == nil {
			return errors.Join(ErrServiceNotReady, types.ErrMissingTableService)
		}
		return errors.Join(ErrServiceNotReady, types.ErrMissingStore)
	}
	return nil
}

// Tables returns a list controller for the workspace.
func (s *Service) Tables(workspaceID string) (*tables.ListController, error) {
	return tables.NewListController(workspaceID, s.tablesConfig())
}

// TableDetail returns an unloaded detail controller.
func (s *Service) TableDetail() (*tables.DetailController, error) {
	return tables.NewDetailController(s.tablesConfig())
}

func (s *Service) tablesConfig() tables.Config {
	return tables.Config{
		Service:  s.cfg.TableService,
		Notifier: s.cfg.Notifier,
		Logger:   s.cfg.Logger,
	}
}
