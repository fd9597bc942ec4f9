package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
)

// maxCaptureBytes limita la salida capturada en Run. Los JSON de metadata
// pueden ser grandes (varios MB), pero nunca deben crecer sin límite.
const maxCaptureBytes = 50 * 1024 * 1024

// stderrTailLines es cuántas líneas finales de stderr se retienen para
// diagnóstico
const stderrTailLines = 10

// LaunchError indica que el binario no se pudo ejecutar (no existe, sin
// permisos)
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ProcessError indica que el proceso terminó con código distinto de cero.
// Output lleva la salida combinada capturada para diagnóstico.
type ProcessError struct {
	Name   string
	Output string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := strings.TrimSpace(e.Output)
	if msg == "" {
		return fmt.Sprintf("%s failed: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Name, e.Err, msg)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Runner ejecuta comandos externos. Sin estado propio: existe como tipo
// para poder inyectarlo y reemplazarlo en tests.
type Runner struct{}

// New crea un nuevo runner
func New() *Runner {
	return &Runner{}
}

// Run ejecuta el comando hasta que termina y retorna stdout+stderr
// combinados, acotados a maxCaptureBytes. Con exit distinto de cero retorna
// ProcessError con la salida capturada.
func (r *Runner) Run(ctx context.Context, cwd, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = cwd

	var buf limitedBuffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return "", &LaunchError{Name: name, Err: err}
	}

	if err := cmd.Wait(); err != nil {
		return "", &ProcessError{Name: name, Output: buf.String(), Err: err}
	}

	return buf.String(), nil
}

// Start lanza el comando y retorna un handle con la salida en streaming.
// La salida no se acumula en memoria: cada línea completa de stdout se
// entrega por el canal Lines apenas se produce. stderr se loguea, no se
// parsea.
func (r *Runner) Start(ctx context.Context, cwd, name string, args ...string) (*Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = cwd

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Name: name, Err: err}
	}

	lines := make(chan string, 64)
	p := &Process{
		name:  name,
		cmd:   cmd,
		Lines: lines,
	}

	p.wg.Add(2)

	// Lector de stdout: entrega líneas completas, nunca fragmentos
	go func() {
		defer p.wg.Done()
		defer close(lines)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		scanner.Split(scanProgressLines)

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			lines <- line
		}
	}()

	// Lector de stderr: solo logging y tail para diagnóstico
	go func() {
		defer p.wg.Done()

		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			log.Printf("[%s stderr] %s", name, line)
			p.appendStderr(line)
		}
	}()

	return p, nil
}

// Process es el handle de un subproceso en streaming
type Process struct {
	name string
	cmd  *exec.Cmd

	// Lines entrega las líneas de stdout; se cierra al agotarse la salida
	Lines <-chan string

	wg sync.WaitGroup

	mu         sync.Mutex
	stderrTail []string
}

// Wait espera a que el proceso termine y se agote su salida. Un exit
// distinto de cero se reporta como error de retorno, no como pánico: el
// caller decide qué hacer con el estado ya parseado.
func (p *Process) Wait() error {
	p.wg.Wait()
	return p.cmd.Wait()
}

// Kill termina el subproceso inmediatamente
func (p *Process) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// StderrTail retorna las últimas líneas de stderr para armar mensajes de
// error
func (p *Process) StderrTail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.stderrTail, "\n")
}

func (p *Process) appendStderr(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stderrTail = append(p.stderrTail, line)
	if len(p.stderrTail) > stderrTailLines {
		p.stderrTail = p.stderrTail[len(p.stderrTail)-stderrTailLines:]
	}
}

// scanProgressLines es como bufio.ScanLines pero trata \r como terminador:
// yt-dlp reescribe la línea de progreso con carriage returns cuando no
// recibe --newline. Ninguna línea de datos se parte en dos entregas.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		// Consumir \r\n como un solo separador
		if data[i] == '\r' && advance < len(data) && data[advance] == '\n' {
			advance++
		}
		return advance, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// limitedBuffer acumula escrituras hasta maxCaptureBytes y descarta el
// resto sin fallar
type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	remaining := maxCaptureBytes - b.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
