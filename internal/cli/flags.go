package cli

import (
	"io"

	"github.com/alexanderramin/costwise/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	JSON       bool
}

// BindGlobalFlags registers the shared flags on fs.
func BindGlobalFlags(fs *pflag.FlagSet, o *GlobalOptions) {
	fs.StringVar(&o.ConfigPath, "config", "", "Config file (.yaml, .yml or .toml); defaults to $COSTWISE_CONFIG")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Log use cases to stderr")
	fs.BoolVar(&o.JSON, "json", false, "Print machine-readable JSON")
}

// ScanGlobalFlags extracts the shared flags from args before the command
// tree exists, so configuration can be loaded first. Unknown flags and
// positional arguments are ignored.
func ScanGlobalFlags(args []string) (GlobalOptions, error) {
	var o GlobalOptions
	fs := pflag.NewFlagSet("costwise", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	BindGlobalFlags(fs, &o)
	if err := fs.Parse(args); err != nil {
		return GlobalOptions{}, err
	}
	return o, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// assignmentFlags binds the editable assignment fields.
type assignmentFlags struct {
	description string
	costType    string
	region      string
	resource    string
	supplier    string
	best        float64
	likely      float64
	worst       float64
	duty        float64
	importPct   float64
	impact      float64
}

func (f *assignmentFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.description, "description", "", "Assignment description")
	fs.StringVar(&f.costType, "cost-type", "", "Cost type code")
	fs.StringVar(&f.region, "region", "", "Region code")
	fs.StringVar(&f.resource, "resource", "", "Resource code")
	fs.StringVar(&f.supplier, "supplier", "", "Supplier code")
	fs.Float64Var(&f.best, "best", 0, "Best-case cost")
	fs.Float64Var(&f.likely, "likely", 0, "Most likely cost")
	fs.Float64Var(&f.worst, "worst", 0, "Worst-case cost")
	fs.Float64Var(&f.duty, "duty-pct", 0, "Duty adjustment percentage")
	fs.Float64Var(&f.importPct, "import-pct", 0, "Import content adjustment percentage")
	fs.Float64Var(&f.impact, "impact-pct", 0, "Impact index adjustment percentage")
}

// apply copies every flag the user set onto a.
func (f *assignmentFlags) apply(fs *pflag.FlagSet, a *domain.Assignment) {
	setStr := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setNum := func(name string, dst *float64, v float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setStr("description", &a.Description, f.description)
	setStr("cost-type", &a.CostTypeCode, f.costType)
	setStr("region", &a.RegionCode, f.region)
	setStr("resource", &a.ResourceCode, f.resource)
	setStr("supplier", &a.SupplierCode, f.supplier)
	setNum("best", &a.Best, f.best)
	setNum("likely", &a.Likely, f.likely)
	setNum("worst", &a.Worst, f.worst)
	setNum("duty-pct", &a.DutyPct, f.duty)
	setNum("import-pct", &a.ImportContentPct, f.importPct)
	setNum("impact-pct", &a.ImpactIndexPct, f.impact)
}

// riskFlags binds the editable risk fields.
type riskFlags struct {
	category    string
	description string
	cost        float64
	probability string
	severity    string
}

func (f *riskFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.category, "category", "", "Risk category code")
	fs.StringVar(&f.description, "description", "", "Risk description")
	fs.Float64Var(&f.cost, "cost", 0, "Cost if the risk materializes")
	fs.StringVar(&f.probability, "probability", "", "Probability code (weighted table)")
	fs.StringVar(&f.severity, "severity", "", "Severity code (weighted table)")
}

func (f *riskFlags) apply(fs *pflag.FlagSet, r *domain.Risk) {
	if fs.Changed("category") {
		r.CategoryCode = f.category
	}
	if fs.Changed("description") {
		r.Description = f.description
	}
	if fs.Changed("cost") {
		r.RiskCost = f.cost
	}
	if fs.Changed("probability") {
		r.ProbabilityCode = f.probability
	}
	if fs.Changed("severity") {
		r.SeverityCode = f.severity
	}
}
