package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitwalk/config"
	"github.com/masmgr/commitwalk/internal/filter"
	"github.com/masmgr/commitwalk/internal/git"
	"github.com/masmgr/commitwalk/internal/output"
	"github.com/masmgr/commitwalk/internal/pathfilter"
	"github.com/masmgr/commitwalk/internal/walk"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all walking commands.
type CommandContext struct {
	Config   *config.Config
	Logger   *logrus.Logger
	RepoPath string
	Repo     git.Repository
	Since    *time.Time
	Until    *time.Time
	Refs     []string
	Range    string

	paths    filter.DiffMatcher
	messages *filter.MessageFilter
}

// NewCommandContext creates a context from CLI flags.
// It loads the configuration, applies flag overrides, opens the repository
// and prepares the predicates every walk shares.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format, c.Bool("verbose"))
	if err != nil {
		return nil, err
	}

	since, err := parseDateFlag(c.String("since"))
	if err != nil {
		return nil, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"))
	if err != nil {
		return nil, fmt.Errorf("invalid until date: %w", err)
	}
	if until != nil {
		// The until date is inclusive.
		end := until.Add(24*time.Hour - time.Nanosecond)
		until = &end
	}

	renameDetect, err := parseRenameDetectFlag(cfg.Walk.RenameDetect)
	if err != nil {
		return nil, err
	}
	backend, err := parseDiffBackendFlag(cfg.Walk.DiffBackend)
	if err != nil {
		return nil, err
	}

	paths, err := buildPathMatcher(cfg.Filters)
	if err != nil {
		return nil, err
	}
	messages, err := filter.NewMessageFilter(cfg.Filters.Messages...)
	if err != nil {
		return nil, fmt.Errorf("invalid message pattern: %w", err)
	}

	repoPath := c.String("repo")
	repo, err := git.Open(repoPath, git.OpenOptions{RenameDetect: renameDetect, DiffBackend: backend})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"repo":         repoPath,
		"diffBackend":  backend,
		"renameDetect": renameDetect.String(),
	}).Debug("repository opened")

	return &CommandContext{
		Config:   cfg,
		Logger:   logger,
		RepoPath: repoPath,
		Repo:     repo,
		Since:    since,
		Until:    until,
		Refs:     cfg.Walk.Refs,
		Range:    c.String("range"),
		paths:    paths,
		messages: messages,
	}, nil
}

// loadConfig loads configuration from file or defaults and applies the
// flags that override it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if refs := c.StringSlice("ref"); len(refs) > 0 {
		cfg.Walk.Refs = refs
	}
	if c.IsSet("no-merges") {
		cfg.Walk.NoMerges = c.Bool("no-merges")
	}
	if c.IsSet("max-commits") {
		cfg.Walk.MaxCommits = c.Int("max-commits")
	}
	if s := c.String("diff-backend"); s != "" {
		cfg.Walk.DiffBackend = s
	}
	if s := c.String("rename-detect"); s != "" {
		cfg.Walk.RenameDetect = s
	}

	if paths := c.StringSlice("path"); len(paths) > 0 {
		cfg.Filters.Paths = paths
	}
	if suffixes := c.StringSlice("suffix"); len(suffixes) > 0 {
		cfg.Filters.Suffixes = suffixes
	}
	if globs := c.StringSlice("glob"); len(globs) > 0 {
		cfg.Filters.Globs = globs
	}
	if s := c.String("match"); s != "" {
		cfg.Filters.Match = s
	}
	if messages := c.StringSlice("message"); len(messages) > 0 {
		cfg.Filters.Messages = messages
	}

	if s := c.String("by"); s != "" {
		cfg.Histogram.By = s
	}
	if s := c.String("sort"); s != "" {
		cfg.Histogram.Sort = s
	}

	if c.IsSet("burst-window") {
		cfg.Paths.BurstWindowDays = c.Int("burst-window")
	}
	if c.IsSet("min-co-commits") {
		cfg.Coupling.MinCoCommits = c.Int("min-co-commits")
	}
	if c.IsSet("min-jaccard") {
		cfg.Coupling.MinJaccard = c.Float64("min-jaccard")
	}
	if c.IsSet("max-files") {
		cfg.Coupling.MaxFilesPerCommit = c.Int("max-files")
	}
	if c.IsSet("top-pairs") {
		cfg.Coupling.TopPairs = c.Int("top-pairs")
	}

	if s := c.String("format"); s != "" {
		cfg.Output.Format = s
	}
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}
	if s := c.String("log-format"); s != "" {
		cfg.Log.Format = s
	}
}

// buildPathMatcher combines the configured paths, suffixes and globs into
// one predicate. It returns nil when no path predicate is configured.
func buildPathMatcher(fc config.FilterConfig) (filter.DiffMatcher, error) {
	all := strings.EqualFold(fc.Match, config.MatchAll)

	type builder struct {
		values []string
		and    func(...string) (*pathfilter.DiffFilter, error)
		or     func(...string) (*pathfilter.DiffFilter, error)
	}
	builders := []builder{
		{fc.Paths, pathfilter.And, pathfilter.Or},
		{fc.Suffixes, pathfilter.AndSuffix, pathfilter.OrSuffix},
		{fc.Globs, pathfilter.AndGlob, pathfilter.OrGlob},
	}

	var exprs []pathfilter.Expr
	for _, b := range builders {
		if len(b.values) == 0 {
			continue
		}
		build := b.or
		if all {
			build = b.and
		}
		df, err := build(b.values...)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, df.Expr())
	}

	switch {
	case len(exprs) == 0:
		return nil, nil
	case len(exprs) == 1:
		return pathfilter.NewDiffFilter(exprs[0]), nil
	case all:
		return pathfilter.NewDiffFilter(pathfilter.AllOf(exprs)), nil
	default:
		return pathfilter.NewDiffFilter(pathfilter.AnyOf(exprs)), nil
	}
}

// pipeline puts the configured predicates in front of an aggregator.
// Cheap predicates come first so the diff is computed only for commits
// that survive them. Every call builds fresh predicates, so pipelines of
// one walk never share a commit limit.
func (ctx *CommandContext) pipeline(aggregator filter.Filter) filter.Filter {
	var members []filter.Filter
	if ctx.Config.Walk.NoMerges {
		members = append(members, filter.NoMerges())
	}
	if ctx.Since != nil || ctx.Until != nil {
		var since, until time.Time
		if ctx.Since != nil {
			since = *ctx.Since
		}
		if ctx.Until != nil {
			until = *ctx.Until
		}
		members = append(members, filter.NewTimeRange(since, until))
	}
	if len(ctx.Config.Filters.Messages) > 0 {
		members = append(members, ctx.messages)
	}
	if ctx.paths != nil {
		members = append(members, filter.NewDiffFilter(ctx.paths))
	}
	if ctx.Config.Walk.MaxCommits > 0 {
		members = append(members, filter.NewLimit(ctx.Config.Walk.MaxCommits))
	}
	if len(members) == 0 {
		return aggregator
	}
	return filter.All(append(members, aggregator)...)
}

// Walk runs one history walk feeding each aggregator through its own
// predicate pipeline.
func (ctx *CommandContext) Walk(aggregators ...filter.Filter) error {
	filters := make([]filter.Filter, len(aggregators))
	for i, agg := range aggregators {
		filters[i] = ctx.pipeline(agg)
	}

	finder := walk.NewFinder(ctx.Repo, walk.WithLogger(ctx.Logger)).SetFilters(filters...)

	var err error
	switch {
	case ctx.Range != "":
		var base, head string
		base, head, err = git.ParseDiffSpec(ctx.Range)
		if err != nil {
			return err
		}
		err = finder.FindBetween(head, base)
	case len(ctx.Refs) > 0:
		err = finder.FindFrom(ctx.Refs...)
	default:
		err = finder.Find()
	}
	if err != nil {
		return fmt.Errorf("failed to walk history: %w", err)
	}
	return nil
}

// RangeLabel describes the walked revisions for report headers.
func (ctx *CommandContext) RangeLabel() string {
	switch {
	case ctx.Range != "":
		return ctx.Range
	case len(ctx.Refs) > 0:
		return strings.Join(ctx.Refs, ", ")
	default:
		return "HEAD and all branches"
	}
}

// Meta returns the report header for this walk.
func (ctx *CommandContext) Meta() output.ReportMeta {
	return output.ReportMeta{
		RepoPath:    ctx.RepoPath,
		Range:       ctx.RangeLabel(),
		Since:       ctx.Since,
		Until:       ctx.Until,
		GeneratedAt: time.Now(),
	}
}

// OutputOptions creates OutputOptions from the merged configuration.
func (ctx *CommandContext) OutputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := output.ParseFormat(ctx.Config.Output.Format)
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		Top:        ctx.Config.Output.Top,
		OutputPath: c.String("output"),
	}, nil
}

// Writer returns the report writer and options for the configured format.
func (ctx *CommandContext) Writer(c *cli.Context) (output.ReportWriter, output.OutputOptions, error) {
	opts, err := ctx.OutputOptions(c)
	if err != nil {
		return nil, opts, err
	}
	return output.NewReportWriter(opts.Format), opts, nil
}

// executeWithContext builds the command context and runs fn with it.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	return fn(ctx, c)
}
