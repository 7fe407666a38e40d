// Package paired provides paired measurement samples for method comparison.
//
// A Sample holds two series of equal length, the readings of the same
// observations by two measurement methods. The difference statistics it
// produces are the input of every Bland-Altman calculation.
//
// # Creating a Sample
//
//	sample, err := paired.New(methodA, methodB)
//	if err != nil {
//	    // lengths differ, fewer than two pairs, or a NaN/Inf value
//	}
//
// # Summary Statistics
//
//	summary := sample.Summary()
//	// summary.MeanDiff: mean of methodA - methodB
//	// summary.StdDiff:  population standard deviation of the differences
//	// summary.N:        number of pairs
//
//	lower, upper := summary.Limits(1.96)
//
// # Plot Coordinates
//
//	x := sample.Means()       // mean of each pair
//	y := sample.Differences() // difference of each pair
//
// # Loading from CSV
//
//	opts := paired.DefaultCSVOptions()
//	opts.FirstColumn = "oximeter"
//	opts.SecondColumn = "blood_gas"
//	sample, err := paired.LoadCSV("readings.csv", opts)
//
// Rows where either value is empty, NA, NaN or null are skipped together so
// that pairs stay aligned.
package paired
