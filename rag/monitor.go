package rag

import "github.com/Marcelele-0/AI-upskilling/core"

// PipelineMonitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps during processing,
// e.g. for an interactive frontend.
type PipelineMonitor interface {
	Start(query string)
	AfterEmbedding(dimensions int)
	AfterSearch(docs []core.RetrievedDocument)
	ContextBuilt(length int)
	ShortCircuit()
	AfterGeneration(answerLength int)
	Finish(resp *core.Response)
}

// noopMonitor is a no-op implementation of PipelineMonitor
type noopMonitor struct{}

var _ PipelineMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterEmbedding(_ int)                    {}
func (n *noopMonitor) AfterSearch(_ []core.RetrievedDocument)  {}
func (n *noopMonitor) ContextBuilt(_ int)                      {}
func (n *noopMonitor) ShortCircuit()                           {}
func (n *noopMonitor) AfterGeneration(_ int)                   {}
func (n *noopMonitor) Finish(_ *core.Response)                 {}
