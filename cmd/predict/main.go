// Command predict classifies a single record from flags, the terminal counterpart of the
// dashboard form.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"incomepredict/logger"
	"incomepredict/ml"
	"incomepredict/prediction"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)

	modelPath := fs.String("model", "models/income_model.json", "model artifact path")
	logLevel := fs.String("log_level", "error", "log level")
	listOptions := fs.Bool("options", false, "print accepted categorical labels and exit")
	var in ml.RawInput
	fs.Int64Var(&in.Age, "age", 25, "age in years")
	fs.Int64Var(&in.CapitalGain, "capital_gain", 0, "capital gain")
	fs.Int64Var(&in.CapitalLoss, "capital_loss", 0, "capital loss")
	fs.Int64Var(&in.HoursPerWeek, "hours_per_week", 40, "hours worked per week")
	fs.StringVar(&in.Workclass, "workclass", "Private", "workclass label")
	fs.StringVar(&in.Occupation, "occupation", "Prof-specialty", "occupation label")
	fs.StringVar(&in.Relationship, "relationship", "Not-in-family", "relationship label")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *listOptions {
		for _, column := range ml.CategoricalColumns() {
			fmt.Fprintf(stdout, "%s: %q\n", column, ml.Options()[column])
		}
		return 0
	}

	svc := prediction.NewService(logger.New(logger.Config{Level: *logLevel}), 0)
	if err := svc.Load(*modelPath); err != nil {
		fmt.Fprintf(stderr, "Error loading model: %v\n", err)
		return 1
	}

	label, err := svc.PredictInput(in)
	if err != nil {
		fmt.Fprintf(stderr, "Error during prediction: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Predicted Income Category: %s\n", label)
	return 0
}
