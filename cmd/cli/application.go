package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/reposcan/internal/render"
	"github.com/temirov/reposcan/internal/scan"
	"github.com/temirov/reposcan/internal/utils"
	flagutils "github.com/temirov/reposcan/internal/utils/flags"
	pathutils "github.com/temirov/reposcan/internal/utils/path"
)

const (
	applicationUseConstant                  = "reposcan [directory]"
	applicationShortDescriptionConstant     = "Discover Git repositories and their remotes beneath a directory"
	applicationLongDescriptionConstant      = "reposcan searches a directory for .git/config files, extracts the declared remotes, and renders the discovered structure as a tree."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	treeFlagNameConstant                    = "tree"
	treeFlagShorthandConstant               = "t"
	treeFlagUsageConstant                   = "Recursively search through subdirectories."
	formatFlagNameConstant                  = "format"
	formatFlagShorthandConstant             = "f"
	formatFlagDescriptionConstant           = "Output format for the discovered tree."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	scanConfigurationKeyConstant            = "scan"
	scanRootConfigKeyConstant               = scanConfigurationKeyConstant + ".root"
	scanTreeConfigKeyConstant               = scanConfigurationKeyConstant + ".tree"
	scanFormatConfigKeyConstant             = scanConfigurationKeyConstant + ".format"
	environmentPrefixConstant               = "REPOSCAN"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	workingDirectoryErrorTemplateConstant   = "failed to resolve current directory: %w"
	notADirectoryErrorTemplateConstant      = "the specified path is not a directory: %s"
	scanCompletedMessageConstant            = "scan completed"
	logFieldSearchRootConstant              = "search_root"
	logFieldTreeModeConstant                = "tree_mode"
	logFieldOutputFormatConstant            = "output_format"
	logFieldChildCountConstant              = "child_count"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Scan   ScanConfiguration              `mapstructure:"scan"`
}

// ApplicationCommonConfiguration stores logging configuration shared across invocations.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ScanConfiguration holds configuration for the repository scan.
type ScanConfiguration struct {
	Root   string `mapstructure:"root"`
	Tree   bool   `mapstructure:"tree"`
	Format string `mapstructure:"format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	treeFlagValue         bool
	formatFlagValue       string
	homeExpander          *pathutils.HomeExpander
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		homeExpander:        pathutils.NewHomeExpander(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUseConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runScanCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	flagutils.AddToggleFlag(cobraCommand.Flags(), &application.treeFlagValue, treeFlagNameConstant, treeFlagShorthandConstant, false, treeFlagUsageConstant)
	formatFlagUsage := flagutils.FormatChoiceUsage(string(render.FormatPlain), render.FormatNames(), formatFlagDescriptionConstant)
	cobraCommand.Flags().StringVarP(&application.formatFlagValue, formatFlagNameConstant, formatFlagShorthandConstant, "", formatFlagUsage)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		scanRootConfigKeyConstant:        "",
		scanTreeConfigKeyConstant:        false,
		scanFormatConfigKeyConstant:      string(render.FormatPlain),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runScanCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	treeModeEnabled := application.configuration.Scan.Tree
	if command.Flags().Changed(treeFlagNameConstant) {
		treeModeEnabled = application.treeFlagValue
	}

	formatValue := application.configuration.Scan.Format
	if command.Flags().Changed(formatFlagNameConstant) {
		formatValue = application.formatFlagValue
	}
	outputFormat, formatError := render.ParseFormat(formatValue)
	if formatError != nil {
		return formatError
	}

	searchDirectory, directoryError := application.resolveSearchDirectory(arguments)
	if directoryError != nil {
		return directoryError
	}

	directoryInformation, statError := os.Stat(searchDirectory)
	if statError != nil || !directoryInformation.IsDir() {
		return fmt.Errorf(notADirectoryErrorTemplateConstant, searchDirectory)
	}

	treeBuilder := scan.NewTreeBuilder(nil)
	repositoryTree, buildError := treeBuilder.BuildTree(searchDirectory, treeModeEnabled)
	if buildError != nil {
		return buildError
	}

	if renderError := render.Render(command.OutOrStdout(), repositoryTree, outputFormat); renderError != nil {
		return renderError
	}

	application.logger.Info(
		scanCompletedMessageConstant,
		zap.String(logFieldSearchRootConstant, searchDirectory),
		zap.Bool(logFieldTreeModeConstant, treeModeEnabled),
		zap.String(logFieldOutputFormatConstant, string(outputFormat)),
		zap.Int(logFieldChildCountConstant, len(repositoryTree.Children)),
	)

	return nil
}

func (application *Application) resolveSearchDirectory(arguments []string) (string, error) {
	candidateDirectory := strings.TrimSpace(application.configuration.Scan.Root)
	if len(arguments) > 0 {
		candidateDirectory = strings.TrimSpace(arguments[0])
	}

	if len(candidateDirectory) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		return workingDirectory, nil
	}

	return application.homeExpander.Expand(candidateDirectory), nil
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
