package webtui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	initialCols = 120
	initialRows = 40
	writeWait   = 10 * time.Second
)

// controlMsg is a JSON text frame from the browser. Any other frame is
// keyboard input.
type controlMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser clients)
// and browser requests from the page this server served.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	return strings.HasSuffix(origin, "://"+strings.TrimSpace(r.Host))
}

// ptySession is one editor subprocess attached to a pseudo terminal.
type ptySession struct {
	tty *os.File
	cmd *exec.Cmd
}

func (s *Server) startPTYSession() (*ptySession, error) {
	cmd, err := s.cfg.Command()
	if err != nil {
		return nil, err
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	tty, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: initialCols, Rows: initialRows})
	if err != nil {
		return nil, err
	}
	return &ptySession{tty: tty, cmd: cmd}, nil
}

func (p *ptySession) close() {
	_ = p.tty.Close()
	_ = p.cmd.Process.Kill()
	_, _ = p.cmd.Process.Wait()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		return
	}
	defer conn.Close()

	sess, err := s.startPTYSession()
	if err != nil {
		log.Warn().Err(err).Msg("webtui: start session")
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	defer sess.close()

	pid := sess.cmd.Process.Pid
	log.Info().Int("pid", pid).Str("remote", r.RemoteAddr).Msg("webtui session started")

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { return sess.toBrowser(conn) })
	g.Go(func() error { return sess.fromBrowser(conn) })
	g.Go(func() error {
		<-ctx.Done()
		// Either pump stopping ends both: the TTY read fails once the child
		// is gone and the WS read fails once the conn is closed.
		_ = sess.cmd.Process.Kill()
		_ = conn.Close()
		return nil
	})
	err = g.Wait()
	log.Info().Int("pid", pid).Err(err).Msg("webtui session ended")
}

func (p *ptySession) toBrowser(conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := p.tty.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errSessionDone
			}
			return err
		}
	}
}

func (p *ptySession) fromBrowser(conn *websocket.Conn) error {
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}
		if mt == websocket.TextMessage && data[0] == '{' {
			p.control(data)
			continue
		}
		if _, err := p.tty.Write(data); err != nil {
			return err
		}
	}
}

func (p *ptySession) control(data []byte) {
	var m controlMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	if strings.EqualFold(strings.TrimSpace(m.Type), "resize") && m.Cols > 0 && m.Rows > 0 {
		_ = pty.Setsize(p.tty, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
	}
}

// errSessionDone ends the errgroup when the editor exits on its own.
var errSessionDone = errors.New("webtui: session ended")

