// Package forest implements the randomized tree ensemble the pipeline
// trains to predict precincts: CART trees with gini splits, bootstrap
// sampling and per-split feature subsampling, aggregated by majority
// vote.
//
// Reproducibility is structural. Tree i draws every random decision from
// a source seeded with baseSeed+i, split search scans candidate features
// in ascending order, and vote ties resolve to the lowest class index.
// Two fits with the same seed and data produce identical ensembles, no
// matter how many workers run the fit.
package forest
