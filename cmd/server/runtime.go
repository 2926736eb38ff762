package main

import (
	"context"
	"errors"
	"sync/atomic"

	httpadapter "portfolio/internal/adapter/http"
	repo "portfolio/internal/adapter/repository"
	"portfolio/internal/config"
	"portfolio/internal/domain"
	"portfolio/internal/infrastructure/migration"
	"portfolio/internal/model"
	"portfolio/internal/notify"
	"portfolio/internal/usecase"
	infra "portfolio/pkg/infrastructure"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

// runtime holds the wired export pipeline shared by the commands.
type runtime struct {
	cfg *config.Config
	log *logrus.Logger

	page       *model.Page
	resume     *model.Resume
	pool       *pgxpool.Pool
	exports    *repo.ExportsRepo
	sink       *infra.FileSink
	drv        infra.Driver
	provider   *usecase.LazyProvider
	recorder   *usecase.RecordingEngine
	recent     *notify.Recent
	controller *usecase.Controller
	busy       atomic.Bool
}

func newRuntime(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: log}

	page, err := model.NewPage(cfg.Site.TemplatesDir)
	if err != nil {
		return nil, err
	}
	resume, err := model.LoadResume(cfg.Site.ContentFile, cfg.Site.SchemaFile)
	if err != nil {
		return nil, err
	}
	rt.page, rt.resume = page, resume

	// export history is optional
	pool, err := infra.NewExportsPool(ctx, cfg.Database.URL)
	if err != nil {
		log.WithError(err).Warn("exports DB not available, history disabled")
	} else if pool != nil {
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		rt.pool = pool
	}
	rt.exports = repo.NewExportsRepo(rt.pool)

	rt.drv, err = infra.NewDriver(infra.BrowserConfig{
		Driver:       cfg.Browser.Driver,
		ChromePath:   cfg.Browser.ChromePath,
		Headless:     cfg.Browser.Headless,
		WindowWidth:  cfg.Browser.WindowWidth,
		WindowHeight: cfg.Browser.WindowHeight,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.sink = infra.NewFileSink(cfg.Export.OutputDir)
	doc := infra.NewBrowserDocument(rt.drv, cfg.Export.HeaderSelector)
	rt.provider = usecase.NewLazyProvider(infra.NewBrowserRendererProvider(rt.drv, doc, rt.sink, log))

	exporter := usecase.NewExporter(doc, rt.provider,
		usecase.WithSettleDelay(cfg.Export.SettleDelay),
		usecase.WithExportOptions(cfg.Export.Options),
		usecase.WithLogger(log),
	)
	rt.recorder = usecase.NewRecordingEngine(exporter, rt.exports, rt.sink, log)

	hub := notify.NewHub()
	rt.recent = notify.NewRecent(20)
	hub.Register(notify.LogSink{Log: log})
	hub.Register(rt.recent)

	rt.controller = usecase.NewController(ctx, rt.recorder, usecase.NotifyingHooks(hub, rt.busy.Store), log)
	return rt, nil
}

// openBrowser loads the live page in the browser tab.
func (rt *runtime) openBrowser(ctx context.Context, pageURL string) error {
	log := rt.log.WithFields(logrus.Fields{"url": pageURL, "driver": rt.cfg.Browser.Driver})
	if err := rt.drv.Open(ctx, pageURL); err != nil {
		log.WithError(err).Error("open resume page in browser")
		return err
	}
	// a restarted tab needs a fresh renderer
	rt.provider.Reset()
	log.Info("resume page open in browser")
	return nil
}

func (rt *runtime) handler() *httpadapter.Handler {
	return httpadapter.NewHandler(httpadapter.Deps{
		Controller:      rt.controller,
		Busy:            rt.busy.Load,
		Last:            rt.recorder.Last,
		History:         rt.exports,
		Notifications:   rt.recent.List,
		Artifacts:       rt.sink,
		Page:            rt.page,
		Resume:          rt.resume,
		Log:             rt.log,
		TargetElementID: rt.cfg.Export.TargetElementID,
		DefaultFilename: rt.cfg.Export.Filename,
	})
}

func (rt *runtime) request(filename string) domain.ExportRequest {
	if filename == "" {
		filename = rt.cfg.Export.Filename
	}
	return domain.ExportRequest{TargetElementID: rt.cfg.Export.TargetElementID, Filename: filename}
}

// Close waits for an in-flight export and releases the browser and pool.
func (rt *runtime) Close() error {
	if rt.controller != nil {
		rt.controller.Wait()
	}
	var errs []error
	if rt.drv != nil {
		errs = append(errs, rt.drv.Close())
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
	return errors.Join(errs...)
}
