package handlers

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/rotacerta/backend/internal/models"
)

func TestParseCustomersCSV_PortugueseHeaders(t *testing.T) {
	content := "cliente,nome,situação,dívida,bairro,cidade,uf\n" +
		"c1,Maria Silva,Ativo,\"1500,50\",Boa Viagem,Recife,pe\n" +
		"c2,João Souza,Bloqueado,0,Pina,Recife,pe\n"
	fh := makeMultipartFile(t, "customers", "customers.csv", content)

	customers, errs := parseCustomersCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
	if customers[0].Status != models.CustomerActive {
		t.Fatalf("expected ACTIVE, got %s", customers[0].Status)
	}
	if customers[0].TotalDebt != 1500.50 {
		t.Fatalf("expected decimal comma parsed, got %f", customers[0].TotalDebt)
	}
	if customers[1].Status != models.CustomerBlocked {
		t.Fatalf("expected BLOCKED, got %s", customers[1].Status)
	}
	if customers[0].State != "PE" {
		t.Fatalf("expected uppercased state, got %s", customers[0].State)
	}
}

func TestParseCustomersCSV_ByteOrderMarkStripped(t *testing.T) {
	// Excel CSV exports prefix the first header with a UTF-8 BOM.
	content := "\uFEFFid,name\nc1,Maria Silva\n"
	fh := makeMultipartFile(t, "customers", "customers.csv", content)

	customers, errs := parseCustomersCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if len(customers) != 1 || customers[0].ID != "c1" {
		t.Fatalf("BOM-prefixed id header not matched: %+v", customers)
	}
}

func TestParseCustomersCSV_CoordinatesOptional(t *testing.T) {
	content := "id,name,lat,lon\nc1,With Coords,-8.12,-34.90\nc2,Without Coords,,\n"
	fh := makeMultipartFile(t, "customers", "customers.csv", content)

	customers, errs := parseCustomersCSV(fh)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if customers[0].Lat == nil || *customers[0].Lat != -8.12 {
		t.Fatalf("expected parsed coordinates, got %+v", customers[0])
	}
	if customers[1].Lat != nil || customers[1].Lon != nil {
		t.Fatalf("expected nil coordinates when columns empty, got %+v", customers[1])
	}
}

func TestParseCustomersCSV_NameRequired(t *testing.T) {
	content := "id,name\nc1,\n"
	fh := makeMultipartFile(t, "customers", "customers.csv", content)

	customers, errs := parseCustomersCSV(fh)
	if len(customers) != 0 {
		t.Fatalf("expected row rejected, got %+v", customers)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
}

func makeMultipartFile(t *testing.T, fieldName, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(buf.Len()))
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	files := form.File[fieldName]
	if len(files) == 0 {
		t.Fatalf("no file headers found")
	}
	return files[0]
}
