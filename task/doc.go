// Package task defines the shared data model for the task-processing
// pipeline: classifications, results, the executor error taxonomy, and the
// stable content key used to identify semantically identical inputs.
package task
