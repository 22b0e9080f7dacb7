package build

import (
	"log/slog"

	"github.com/AndreyAkinshin/toolpin/internal/binder"
	"github.com/AndreyAkinshin/toolpin/internal/config"
	"github.com/AndreyAkinshin/toolpin/internal/errors"
	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/project"
	"github.com/AndreyAkinshin/toolpin/internal/report"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// FromProject derives configuration-phase options from a loaded project.
// The project's report file, when configured, is added to sinks.
func FromProject(p *project.Project, logger *slog.Logger, sinks ...report.Sink) (Options, *toolchain.LocalProvider, error) {
	declared, err := p.DeclaredInstallations()
	if err != nil {
		return Options{}, nil, err
	}

	var cacheSize int
	if p.Config.Installations != nil {
		cacheSize = p.Config.Installations.CacheSize
	}
	provider, err := toolchain.NewLocalProvider(toolchain.ProviderOptions{
		Roots:     p.Roots(),
		Declared:  declared,
		CacheSize: cacheSize,
		Logger:    logger,
	})
	if err != nil {
		return Options{}, nil, errors.Wrap(err, "failed to create toolchain provider")
	}

	bindOpts, err := BindingOptions(p.Config.Binding)
	if err != nil {
		return Options{}, nil, err
	}
	bindOpts.Logger = logger

	tasks, err := Tasks(p.Config.Tasks)
	if err != nil {
		return Options{}, nil, err
	}

	if path := p.ReportPath(); path != "" {
		sinks = append(sinks, report.NewFileSink(path))
	}

	return Options{
		Properties: p.Properties,
		Registry:   p.Registry(),
		Forced:     p.ForcedFrontends(),
		Provider:   provider,
		Tasks:      tasks,
		Binding:    bindOpts,
		Sink:       report.MultiSink(sinks),
		Logger:     logger,
	}, provider, nil
}

// BindingOptions converts the binding block of the configuration.
func BindingOptions(cfg *config.BindingConfig) (binder.Options, error) {
	var opts binder.Options
	if cfg == nil {
		return opts, nil
	}
	if cfg.Classifier != "" {
		classifier, err := binder.ParseClassifier(cfg.Classifier)
		if err != nil {
			return opts, errors.Config(err.Error())
		}
		opts.Classifier = classifier
	}
	opts.ExperimentalVersions = cfg.ExperimentalVersions
	return opts, nil
}

// Tasks converts declared tasks into graph tasks.
func Tasks(declared []config.TaskConfig) ([]*taskgraph.Task, error) {
	tasks := make([]*taskgraph.Task, 0, len(declared))
	for _, tc := range declared {
		kind, err := frontend.ParseKind(tc.Kind)
		if err != nil {
			return nil, errors.Configf("task %q: %v", tc.Name, err)
		}
		action, err := taskgraph.ParseAction(tc.Action)
		if err != nil {
			return nil, errors.Configf("task %q: %v", tc.Name, err)
		}
		tasks = append(tasks, &taskgraph.Task{
			Name:      tc.Name,
			Kind:      kind,
			Action:    action,
			Category:  tc.Category,
			DependsOn: append([]string(nil), tc.DependsOn...),
		})
	}
	return tasks, nil
}
