package host

import (
	"fmt"

	"github.com/dshills/narrowstack/internal/logging"
	"github.com/dshills/narrowstack/internal/narrow"
)

// Editor owns the open documents, their narrowing state and the host
// operation table.
type Editor struct {
	docs       map[string]*Document
	order      []string
	manager    *narrow.Manager
	registry   *narrow.Registry
	dispatcher *narrow.Dispatcher
	logger     *logging.Logger
}

// EditorOption configures an Editor during creation.
type EditorOption func(*editorConfig)

type editorConfig struct {
	logger          *logging.Logger
	managerOpts     []narrow.Option
	widenOnNoChange bool
}

// WithLogger sets the editor logger.
func WithLogger(l *logging.Logger) EditorOption {
	return func(c *editorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithManagerOptions passes options to the narrowing manager.
func WithManagerOptions(opts ...narrow.Option) EditorOption {
	return func(c *editorConfig) {
		c.managerOpts = append(c.managerOpts, opts...)
	}
}

// WithWidenOnNoChange configures the DWIM dispatcher to widen when the
// chosen strategy did not change the view.
func WithWidenOnNoChange(enabled bool) EditorOption {
	return func(c *editorConfig) {
		c.widenOnNoChange = enabled
	}
}

// NewEditor creates an editor with every host operation registered and
// interception disabled. The DWIM dispatcher starts with no strategies.
func NewEditor(opts ...EditorOption) (*Editor, error) {
	cfg := editorConfig{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	managerOpts := append([]narrow.Option{narrow.WithLogger(cfg.logger)}, cfg.managerOpts...)
	manager := narrow.NewManager(managerOpts...)
	registry := narrow.NewRegistry(manager)
	if err := RegisterOperations(registry); err != nil {
		return nil, fmt.Errorf("registering host operations: %w", err)
	}

	return &Editor{
		docs:     make(map[string]*Document),
		manager:  manager,
		registry: registry,
		dispatcher: narrow.NewDispatcher(manager, nil,
			narrow.WithWidenOnNoChange(cfg.widenOnNoChange)),
		logger: cfg.logger.WithComponent("editor"),
	}, nil
}

// Manager returns the narrowing manager.
func (e *Editor) Manager() *narrow.Manager { return e.manager }

// Registry returns the host operation table.
func (e *Editor) Registry() *narrow.Registry { return e.registry }

// Dispatcher returns the DWIM dispatcher.
func (e *Editor) Dispatcher() *narrow.Dispatcher { return e.dispatcher }

// Open adds doc to the editor and attaches its narrowing state.
func (e *Editor) Open(doc *Document) error {
	if _, ok := e.docs[doc.id]; ok {
		return fmt.Errorf("%s: %w", doc.id, ErrDocumentAlreadyOpen)
	}
	if _, err := e.manager.Attach(doc); err != nil {
		return err
	}
	e.docs[doc.id] = doc
	e.order = append(e.order, doc.id)
	e.logger.Info("opened %s (%s, %d bytes)", doc.name, doc.mode, doc.Len())
	return nil
}

// OpenFile loads a file and opens it.
func (e *Editor) OpenFile(path string, opts ...DocumentOption) (*Document, error) {
	doc, err := LoadDocument(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := e.Open(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Close removes a document and discards its narrowing state.
func (e *Editor) Close(id string) error {
	doc, ok := e.docs[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrDocumentNotFound)
	}
	e.manager.Detach(id)
	delete(e.docs, id)
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.logger.Info("closed %s", doc.name)
	return nil
}

// Document returns an open document by id.
func (e *Editor) Document(id string) (*Document, error) {
	doc, ok := e.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrDocumentNotFound)
	}
	return doc, nil
}

// Documents returns the open documents in the order they were opened.
func (e *Editor) Documents() []*Document {
	docs := make([]*Document, 0, len(e.order))
	for _, id := range e.order {
		docs = append(docs, e.docs[id])
	}
	return docs
}

// Invoke runs a host operation on doc.
func (e *Editor) Invoke(name string, doc *Document, args ...int) error {
	if err := e.checkOpen(doc); err != nil {
		return err
	}
	return e.registry.Invoke(name, doc, args...)
}

// NarrowOrWiden runs the DWIM dispatcher on doc.
func (e *Editor) NarrowOrWiden(doc *Document) error {
	if err := e.checkOpen(doc); err != nil {
		return err
	}
	return e.dispatcher.NarrowOrWiden(doc)
}

// Widen undoes one narrowing level of doc, or fully widens it. Unlike the
// widen host operation it does so whether or not interception is enabled.
func (e *Editor) Widen(doc *Document) error {
	if err := e.checkOpen(doc); err != nil {
		return err
	}
	return e.manager.Widen(doc)
}

// checkOpen rejects documents that were never opened or have been closed,
// so that no narrowing state is attached for them again.
func (e *Editor) checkOpen(doc *Document) error {
	if doc == nil {
		return narrow.ErrNilDocument
	}
	if open, ok := e.docs[doc.id]; !ok || open != doc {
		return fmt.Errorf("%s: %w", doc.id, ErrDocumentNotFound)
	}
	return nil
}

// Depth returns the narrowing depth of doc.
func (e *Editor) Depth(doc *Document) int {
	return e.manager.Depth(doc)
}
