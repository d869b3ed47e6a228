package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a.csv", []byte("A,B\n1,2\n")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "A,B\n1,2\n" {
		t.Fatalf("内容不一致：%q", string(b))
	}

	assertNoTemp(t, dir, "a.csv")
}

func TestWriteFileAtomicReplace_Overwrites(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "a.csv", []byte("old-content-that-is-longer")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "a.csv", []byte("new")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "new" {
		t.Fatalf("期望被覆盖为 new，实际：%q", string(b))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("期望目录中只有 1 个文件，实际 %d", len(entries))
	}
}

func TestWriteFileAtomicReplace_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	err := WriteFileAtomicReplace(dir, "a.csv", []byte("hello"))
	if err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if e.Name() == "a.csv" {
			t.Fatalf("不应写出最终文件：%q", e.Name())
		}
	}
	assertNoTemp(t, dir, "a.csv")
}

func TestWriteFileAtomicReplace_TargetIsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "a.csv"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := WriteFileAtomicReplace(dir, "a.csv", []byte("hello"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func TestEnsureDir_CreateAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Data", "nested")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("首次创建不期望错误：%v", err)
	}
	// 放一个文件进去：再次 EnsureDir 不应改动目录内容。
	if err := os.WriteFile(filepath.Join(dir, "keep.csv"), []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("重复调用不期望错误：%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.csv")); err != nil {
		t.Fatalf("已有文件不应受影响：%v", err)
	}
}

func TestEnsureDir_FileConflict(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Data")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	err := EnsureDir(p)
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func assertNoTemp(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "."+name+".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}
