package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mindcare/internal/domain"
	"mindcare/internal/entitlement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient_SavesAndComputesAge(t *testing.T) {
	f := newFixture(t, domain.PlanPro)

	c := f.addClient(t, "Ana Silva")

	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, 27, c.Age)
	assert.Equal(t, 1, f.repo.saveCount())
	assert.Equal(t, "joao@mindcare.com", f.repo.owner)
	assert.Len(t, f.repo.last.Clients, 1)
}

func TestCreateClient_Validation(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()

	_, err := f.clinic.CreateClient(ctx, CreateClientRequest{Phone: "1", BirthDate: "2000-01-01"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = f.clinic.CreateClient(ctx, CreateClientRequest{Name: "A", Phone: "1", BirthDate: "01/01/2000"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "birthDate", verr.Field)

	_, err = f.clinic.CreateClient(ctx, CreateClientRequest{Name: "A", Phone: "1", BirthDate: "2030-01-01"})
	require.ErrorAs(t, err, &verr)

	assert.Zero(t, f.repo.saveCount())
}

func TestCreateClient_PlanLimit(t *testing.T) {
	f := newFixture(t, domain.PlanStart)
	for i := 0; i < 15; i++ {
		f.addClient(t, "Cliente")
	}

	_, err := f.clinic.CreateClient(context.Background(), CreateClientRequest{Name: "Extra", Phone: "1", BirthDate: "2000-01-01"})

	var limit *entitlement.LimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 15, limit.Limit)
	assert.Equal(t, 15, f.repo.saveCount())
}

func TestSaveFailureRollsBack(t *testing.T) {
	f := newFixture(t, domain.PlanStart)
	ctx := context.Background()
	for i := 0; i < 14; i++ {
		f.addClient(t, "Cliente")
	}
	f.repo.failErr = errBoom

	req := CreateClientRequest{Name: "Ana", Phone: "1", BirthDate: "2000-01-01"}
	_, err := f.clinic.CreateClient(ctx, req)

	require.ErrorIs(t, err, errBoom)
	assert.Len(t, f.mutator.Snapshot().Clients, 14)

	// a retry after the store recovers takes the last plan slot exactly once
	f.repo.failErr = nil
	_, err = f.clinic.CreateClient(ctx, req)
	require.NoError(t, err)
	assert.Len(t, f.mutator.Snapshot().Clients, 15)
	assert.Len(t, f.repo.last.Clients, 15)
}

func TestListClients_SearchAndPaging(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	f.addClient(t, "Carlos")
	f.addClient(t, "Ana")
	f.addClient(t, "Bruno")
	ctx := context.Background()

	all := f.clinic.ListClients(ctx, ListClientsRequest{})
	assert.Equal(t, 3, all.Pagination.Count)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "Carlos", all.Items[0].Name)

	sorted := f.clinic.ListClients(ctx, ListClientsRequest{Sort: "name", Page: 2, Size: 2})
	require.Len(t, sorted.Items, 1)
	assert.Equal(t, "Carlos", sorted.Items[0].Name)
	assert.Equal(t, 3, sorted.Pagination.Count)

	found := f.clinic.ListClients(ctx, ListClientsRequest{Search: "an"})
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Ana", found.Items[0].Name)

	empty := f.clinic.ListClients(ctx, ListClientsRequest{Page: 9, Size: 2})
	assert.Empty(t, empty.Items)
}

func TestListClients_HugePageAndSize(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	f.addClient(t, "Ana")
	f.addClient(t, "Bruno")
	ctx := context.Background()

	var resp *ListClientsResponse
	require.NotPanics(t, func() {
		resp = f.clinic.ListClients(ctx, ListClientsRequest{Page: 4611686018427387905, Size: 2})
	})
	assert.Empty(t, resp.Items)
	assert.Equal(t, 2, resp.Pagination.Count)

	resp = f.clinic.ListClients(ctx, ListClientsRequest{Page: 1, Size: 1 << 62})
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, maxPageSize, resp.Pagination.Size)
}

func TestDeleteClient_CascadesAndNoop(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	_, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)
	_, err = f.clinic.CreateNote(ctx, CreateNoteRequest{ClientID: c.ID, Content: "Primeira sessão"})
	require.NoError(t, err)

	found, err := f.clinic.DeleteClient(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, f.clinic.ListSessions(ctx, ""))
	assert.Empty(t, f.clinic.ListNotes(ctx, c.ID))

	saves := f.repo.saveCount()
	found, err = f.clinic.DeleteClient(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, saves, f.repo.saveCount(), "no-op must not save")
}

func TestSessions_Lifecycle(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")

	sess, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModalityOnline, sess.Modality)
	assert.Equal(t, "Ana", sess.ClientName)

	ok, err := f.clinic.ConfirmSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.clinic.SendReminder(ctx, sess.ID))
	require.Len(t, f.pub.sent, 1)
	assert.Equal(t, "2024-03-20", f.pub.sent[0].Date)
	assert.Equal(t, "America/Sao_Paulo", f.pub.sent[0].Timezone)

	ok, err = f.clinic.CancelSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, f.clinic.ListSessions(ctx, ""))

	var verr *ValidationError
	assert.ErrorAs(t, f.clinic.SendReminder(ctx, sess.ID), &verr)
}

func TestCreateSession_Validation(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")

	_, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "25:00"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time", verr.Field)

	_, err = f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "10:00", Type: "phone"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestSendReminder_GatedByPlan(t *testing.T) {
	f := newFixture(t, domain.PlanStart)
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	sess, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)

	err = f.clinic.SendReminder(ctx, sess.ID)

	var denied *entitlement.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, entitlement.Reminders, denied.Feature)
	assert.Empty(t, f.pub.sent)
}

func TestSendReminder_PublisherFailure(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	sess, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-20", Time: "10:00"})
	require.NoError(t, err)
	f.pub.err = errBoom

	assert.ErrorIs(t, f.clinic.SendReminder(ctx, sess.ID), errBoom)
}

func TestNotes_EditRoundTrip(t *testing.T) {
	f := newFixture(t, domain.PlanStart)
	ctx := context.Background()
	c := f.addClient(t, "Ana")

	n, err := f.clinic.CreateNote(ctx, CreateNoteRequest{ClientID: c.ID, Content: "antes"})
	require.NoError(t, err)
	edited, err := f.clinic.UpdateNote(ctx, n.ID, UpdateNoteRequest{Content: "depois"})
	require.NoError(t, err)
	require.NotNil(t, edited)
	assert.Equal(t, "depois", edited.Content)

	missing, err := f.clinic.UpdateNote(ctx, "nope", UpdateNoteRequest{Content: "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	notes := f.clinic.ListNotes(ctx, c.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, "depois", notes[0].Content)
}

func TestForms_CreateUpdate(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")

	form, err := f.clinic.CreateForm(ctx, CreateFormRequest{
		ClientID: c.ID,
		Type:     string(domain.FormCBTWorksheet),
		Data:     json.RawMessage(`{"emocoes":"Ansiedade 80"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FormCBTWorksheet, form.Type())

	_, err = f.clinic.UpdateForm(ctx, form.ID, UpdateFormRequest{Type: string(domain.FormIntake), Data: json.RawMessage(`{}`)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)

	_, err = f.clinic.CreateForm(ctx, CreateFormRequest{ClientID: c.ID, Type: "unknown"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestForms_GatedOnStart(t *testing.T) {
	f := newFixture(t, domain.PlanStart)
	c := f.addClient(t, "Ana")

	_, err := f.clinic.CreateForm(context.Background(), CreateFormRequest{ClientID: c.ID, Type: string(domain.FormCBTWorksheet)})

	assert.True(t, entitlement.IsDenied(err))
}

func TestEvolution_ChartAndGate(t *testing.T) {
	ctx := context.Background()

	pro := newFixture(t, domain.PlanPro)
	c := pro.addClient(t, "Ana")
	_, err := pro.clinic.CreateEvolutionEntry(ctx, CreateEvolutionRequest{ClientID: c.ID, Symptom: "Ansiedade", Intensity: intPtr(5)})
	assert.True(t, entitlement.IsDenied(err))
	_, err = pro.clinic.EvolutionChart(ctx, c.ID)
	assert.True(t, entitlement.IsDenied(err))

	inf := newFixture(t, domain.PlanInfinity)
	c = inf.addClient(t, "Ana")
	_, err = inf.clinic.CreateEvolutionEntry(ctx, CreateEvolutionRequest{ClientID: c.ID, Symptom: "Ansiedade", Intensity: intPtr(11)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "intensity", verr.Field)

	_, err = inf.clinic.CreateEvolutionEntry(ctx, CreateEvolutionRequest{ClientID: c.ID, Symptom: "Ansiedade", Intensity: intPtr(0)})
	require.NoError(t, err)
	_, err = inf.clinic.CreateEvolutionEntry(ctx, CreateEvolutionRequest{ClientID: c.ID, Symptom: "Ansiedade", Intensity: intPtr(7)})
	require.NoError(t, err)

	resp, err := inf.clinic.EvolutionChart(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, resp.Aggregate.Series, 1)
	assert.Len(t, resp.Aggregate.Series[0].Points, 2)
	assert.False(t, resp.Chart.Empty)
	assert.Empty(t, resp.Chart.Legend)
}

func TestEvolutionChart_TooltipDateInPractitionerZone(t *testing.T) {
	// 22:30 on Mar 5 in São Paulo is already Mar 6 in UTC
	f := newFixtureWithEnv(t, domain.PlanInfinity, envAt(time.Date(2024, 3, 6, 1, 30, 0, 0, time.UTC)))
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	_, err := f.clinic.CreateEvolutionEntry(ctx, CreateEvolutionRequest{ClientID: c.ID, Symptom: "Insônia", Intensity: intPtr(6)})
	require.NoError(t, err)

	resp, err := f.clinic.EvolutionChart(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05", f.mutator.Today().String())
	require.Len(t, resp.Chart.Tooltips, 1)
	assert.Equal(t, "05/03/2024", resp.Chart.Tooltips[0].Date)
	// stored entries keep their instant
	assert.True(t, f.mutator.Snapshot().Evolution[0].CreatedAt.Equal(time.Date(2024, 3, 6, 1, 30, 0, 0, time.UTC)))
}

func TestCalendar(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()

	days, err := f.clinic.Calendar(ctx, "2024-02")
	require.NoError(t, err)
	require.Len(t, days, 42)
	assert.Equal(t, "2024-01-28", days[0].Date.String())

	_, err = f.clinic.Calendar(ctx, "fev")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	current, err := f.clinic.Calendar(ctx, "")
	require.NoError(t, err)
	assert.Len(t, current, 42)
}

func TestDashboard_UsesPractitionerToday(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	_, err := f.clinic.CreateSession(ctx, CreateSessionRequest{ClientID: c.ID, Date: "2024-03-14", Time: "16:00"})
	require.NoError(t, err)

	d := f.clinic.Dashboard(ctx)

	assert.Equal(t, 1, d.TotalClients)
	assert.Equal(t, 1, d.TodaySessionsCount)
}

func TestExportClients(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	f.addClient(t, "Ana")
	f.addClient(t, "Bruno")

	rows := f.clinic.ExportClients(context.Background())

	require.Len(t, rows, 2)
	assert.Equal(t, 27, rows[0].Age)
}

func TestGetClient_Detail(t *testing.T) {
	f := newFixture(t, domain.PlanPro)
	ctx := context.Background()
	c := f.addClient(t, "Ana")
	_, err := f.clinic.CreateNote(ctx, CreateNoteRequest{ClientID: c.ID, Content: "n"})
	require.NoError(t, err)

	d, ok := f.clinic.GetClient(ctx, c.ID)
	require.True(t, ok)
	assert.Len(t, d.Notes, 1)

	_, ok = f.clinic.GetClient(ctx, "missing")
	assert.False(t, ok)
}
