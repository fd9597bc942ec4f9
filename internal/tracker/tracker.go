// Package tracker mantiene el registro de trabajos de descarga en curso.
// Es el único dueño de los DownloadJob: el orquestador muta a través de
// Update y los pollers reciben copias vía Get.
package tracker

import (
	"sync"
	"time"

	"github.com/elsanchez/social-download/internal/domain"
)

// DefaultRetention es cuánto tiempo queda consultable un trabajo terminado
// antes de evictarse del registro
const DefaultRetention = 5 * time.Minute

// Tracker es el registro de trabajos, inyectable y con ciclo de vida
// propio (se crea al arrancar el proceso)
type Tracker struct {
	mu        sync.RWMutex
	jobs      map[string]*domain.DownloadJob
	retention time.Duration
}

// New crea un tracker con la ventana de retención indicada
func New(retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Tracker{
		jobs:      make(map[string]*domain.DownloadJob),
		retention: retention,
	}
}

// Create registra un trabajo nuevo en estado initializing con progreso 0.
// El trabajo es visible para pollers inmediatamente, antes de que llegue
// cualquier salida del subproceso.
func (t *Tracker) Create(id, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.jobs[id] = &domain.DownloadJob{
		ID:        id,
		URL:       url,
		Status:    domain.StatusInitializing,
		Progress:  0,
		CreatedAt: time.Now(),
	}
}

// Get retorna una copia del trabajo. El segundo valor es false para IDs
// desconocidos o ya evictados: el cliente debe dejar de trackear, no es un
// error silencioso.
func (t *Tracker) Get(id string) (domain.DownloadJob, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	if !ok {
		return domain.DownloadJob{}, false
	}
	return *job, true
}

// Update aplica una mutación al trabajo. Los estados terminales son
// definitivos: una vez complete o error, las mutaciones posteriores se
// ignoran. Al llegar a terminal se agenda la eviction tras la ventana de
// retención.
func (t *Tracker) Update(id string, fn func(*domain.DownloadJob)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return false
	}
	if job.IsTerminal() {
		return false
	}

	fn(job)

	if job.IsTerminal() && job.FinishedAt == nil {
		now := time.Now()
		job.FinishedAt = &now
		time.AfterFunc(t.retention, func() { t.remove(id) })
	}

	return true
}

// ActiveCount cuenta los trabajos que aún no llegan a estado terminal
func (t *Tracker) ActiveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, job := range t.jobs {
		if job.IsActive() {
			count++
		}
	}
	return count
}

func (t *Tracker) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}
