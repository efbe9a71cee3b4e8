// Package inference is the HTTP client for the model-serving backend that hosts
// the pretrained language identification, translation and sentiment models.
// The backend loads a model on request and hands back an opaque handle; all
// later calls for that model go through the handle.
package inference
