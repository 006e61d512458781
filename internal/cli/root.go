package cli

import (
	"github.com/agentx-labs/typelocator/internal/branding"
	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	excludeDirs  []string
	excludeFiles []string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scans a search path of directories and zip archives for type units
and lists the types that derive from, or satisfy, a contract within a set of namespaces.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logging.ConfigureFromEnv(config.Current().LogLevel)
	},
}

// persistentFlags maps each persistent flag to the setting it overrides.
var persistentFlags = []struct {
	flag, key, usage string
	boolean          bool
}{
	{"search-path", config.KeySearchPath, "Directories and archives to scan, separated by the OS list separator", false},
	{"suffix", config.KeyUnitSuffix, "File suffix of type units", false},
	{"list", config.KeyListFile, "Read type names from a fixed list instead of scanning", false},
	{"properties", config.KeyPropertiesFile, "Read type names from a properties file instead of scanning", false},
	{"packages", config.KeyPackagesFile, "Contract to namespaces table (.properties, .yaml or .toml)", false},
	{"blacklist", config.KeyBlacklistFile, "Contract to blacklist patterns table (.properties, .yaml or .toml)", false},
	{"cache", config.KeyCacheFile, "Persist the scan result to this file and reuse it while the search path is unchanged", false},
	{"log-level", config.KeyLogLevel, "Log threshold (off, severe, warning, info, config, fine, finer, finest)", false},
	{"only-default-constructor", config.KeyOnlyDefaultConstructor, "Only list types constructible without arguments", true},
	{"only-serializable", config.KeyOnlySerializable, "Only list serializable types", true},
}

func init() {
	f := rootCmd.PersistentFlags()
	for _, pf := range persistentFlags {
		if pf.boolean {
			f.Bool(pf.flag, false, pf.usage)
		} else {
			f.String(pf.flag, "", pf.usage)
		}
		_ = viper.BindPFlag(pf.key, f.Lookup(pf.flag))
	}
	f.StringSliceVar(&excludeDirs, "exclude-dir", nil, "Directory or archive to skip (repeatable)")
	f.StringSliceVar(&excludeFiles, "exclude-file", nil, "Regular expression matched against whole unit file names to skip (repeatable)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
