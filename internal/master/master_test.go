package master

import (
	"testing"
	"time"

	"github.com/grantHarris/pdjl/internal/wire"
)

func TestRequestMasterRoleSelfPromotesWhenNoMasterKnown(t *testing.T) {
	m := New(1)
	action := m.RequestMasterRole(time.Now())
	if action.Kind != ActionNone {
		t.Fatalf("action = %+v, want ActionNone", action)
	}
	if !m.IsMaster() {
		t.Fatalf("expected self-promotion to master")
	}
}

func TestRequestMasterRoleSendsHandoffRequest(t *testing.T) {
	m := New(1)
	now := time.Now()
	m.OnStatus(2, wire.StatusInfo{Master: true}, now)

	action := m.RequestMasterRole(now)
	if action.Kind != ActionSendHandoffRequest || action.Target != 2 {
		t.Fatalf("action = %+v, want handoff request to device 2", action)
	}
	if m.IsMaster() {
		t.Fatalf("should not be master while request outstanding")
	}
}

func TestRequestMasterRoleNoOpWhenAlreadyMaster(t *testing.T) {
	m := New(1)
	m.RequestMasterRole(time.Now())
	action := m.RequestMasterRole(time.Now())
	if action.Kind != ActionNone {
		t.Fatalf("action = %+v, want ActionNone", action)
	}
}

func TestMaybeRetryMasterRequestAbandonsOnTimeout(t *testing.T) {
	m := New(1)
	now := time.Now()
	m.OnStatus(2, wire.StatusInfo{Master: true}, now)
	m.RequestMasterRole(now)

	action := m.MaybeRetryMasterRequest(now.Add(6*time.Second), 5*time.Second, time.Second, 5)
	if action.Kind != ActionNone {
		t.Fatalf("action = %+v, want ActionNone after timeout", action)
	}
}

func TestMaybeRetryMasterRequestRetriesWithinBudget(t *testing.T) {
	m := New(1)
	now := time.Now()
	m.OnStatus(2, wire.StatusInfo{Master: true}, now)
	m.RequestMasterRole(now)

	action := m.MaybeRetryMasterRequest(now.Add(600*time.Millisecond), 5*time.Second, 500*time.Millisecond, 5)
	if action.Kind != ActionSendHandoffRequest || action.Target != 2 {
		t.Fatalf("action = %+v, want retry handoff request", action)
	}
}

func TestOnStatusMasterHandoffToUsBecomesMaster(t *testing.T) {
	m := New(1)
	now := time.Now()
	m.OnStatus(2, wire.StatusInfo{Master: true}, now)
	m.RequestMasterRole(now)

	m.OnStatus(2, wire.StatusInfo{Master: true, MasterHandoffTo: 1}, now.Add(time.Second))
	if !m.IsMaster() {
		t.Fatalf("expected to become master after handoff status")
	}
}

func TestOnHandoffRequestWhileMasterAcceptsAndRecordsSuccessor(t *testing.T) {
	m := New(1)
	m.RequestMasterRole(time.Now())

	action := m.OnHandoffRequest(2)
	if action.Kind != ActionSendHandoffResponse || !action.Accepted || action.Target != 2 {
		t.Fatalf("action = %+v, want accepted response to device 2", action)
	}

	target, ok := m.HandoffTarget()
	if !ok || target != 2 {
		t.Fatalf("HandoffTarget = %v,%v want 2,true", target, ok)
	}
}

func TestOnHandoffRequestWhileNotMasterDeclines(t *testing.T) {
	m := New(1)
	action := m.OnHandoffRequest(2)
	if action.Kind != ActionSendHandoffResponse || action.Accepted {
		t.Fatalf("action = %+v, want declined response", action)
	}
}

func TestOnMasterSeenAdvertisingRelinquishes(t *testing.T) {
	m := New(1)
	m.RequestMasterRole(time.Now())
	m.OnHandoffRequest(2)

	m.OnMasterSeenAdvertising(2)
	if m.IsMaster() {
		t.Fatalf("expected master role relinquished")
	}
	if _, ok := m.HandoffTarget(); ok {
		t.Fatalf("expected handoff target cleared")
	}
}
