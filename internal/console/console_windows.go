//go:build windows

// Package console detects whether the process owns a terminal and installs
// a Ctrl+C handler that keeps working while SDL holds the input thread.
package console

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procAllocConsole          = kernel32.NewProc("AllocConsole")
	procFreeConsole           = kernel32.NewProc("FreeConsole")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
)

// IsRunningFromConsole reports whether the program was started from a
// terminal. A console build that was double-clicked frees its console window;
// a GUI build started from a terminal allocates one and redirects the
// standard streams to it.
func IsRunningFromConsole() bool {
	fromExplorer := launchedFromExplorer()

	if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd != 0 {
		if fromExplorer {
			procFreeConsole.Call()
			return false
		}
		return true
	}

	if fromExplorer {
		return false
	}
	procAllocConsole.Call()
	redirectStdStreams()
	return true
}

func redirectStdStreams() {
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || stdout == 0 {
		return
	}
	stderr, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	if err != nil || stderr == 0 {
		return
	}
	os.Stdout = os.NewFile(uintptr(stdout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(stderr), "/dev/stderr")
	if stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE); err == nil && stdin != 0 {
		os.Stdin = os.NewFile(uintptr(stdin), "/dev/stdin")
	}
	log.SetOutput(os.Stderr)
}

func launchedFromExplorer() bool {
	ppid := parentProcessID(uint32(os.Getpid()))
	if ppid == 0 {
		return false
	}
	return strings.EqualFold(filepath.Base(processImageName(ppid)), "explorer.exe")
}

func parentProcessID(pid uint32) uint32 {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		if entry.ProcessID == pid {
			return entry.ParentProcessID
		}
	}
	return 0
}

func processImageName(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

var (
	handlerOnce sync.Once
	handlerFn   uintptr
	shutdownCh  chan struct{}
	closeOnce   sync.Once
)

// SetupConsoleHandler closes shutdown on Ctrl+C or Ctrl+Break. SDL replaces
// console handlers during init, so the returned function re-registers it.
func SetupConsoleHandler(shutdown chan struct{}) func() {
	handlerOnce.Do(func() {
		shutdownCh = shutdown
		handlerFn = syscall.NewCallback(func(ctrlType uint32) uintptr {
			if ctrlType == ctrlCEvent || ctrlType == ctrlBreakEvent {
				closeOnce.Do(func() { close(shutdownCh) })
				return 1
			}
			return 0
		})
	})

	register := func() {
		if ret, _, _ := procSetConsoleCtrlHandler.Call(handlerFn, 1); ret == 0 {
			slog.Warn("Failed to set console control handler")
		}
	}
	register()
	return register
}
