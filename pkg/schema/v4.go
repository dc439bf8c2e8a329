package schema

import (
	"sync"
	"time"

	"github.com/ssargent/stdfkit/pkg/record"
)

// V4 builds the registry for the STDF V4 record set.
func V4() (*Registry, error) {
	return NewRegistry(record.V4, V4Bindings()...)
}

// MustV4 returns the shared V4 registry, building it on first use. A defect in
// the built-in table panics.
func MustV4() *Registry {
	reg, err := v4Once()
	if err != nil {
		panic(err)
	}
	return reg
}

var v4Once = sync.OnceValues(V4)

// V4Bindings returns the layout of every STDF V4 record.
func V4Bindings() []Binding {
	return []Binding{
		{Code: record.TypeFAR, Name: "FAR", New: func() record.Record { return &record.FAR{} }, Fields: []Field{
			F(1, "CPU_TYPE", U1, Bind(func(r *record.FAR) *uint8 { return &r.CpuType })),
			F(2, "STDF_VER", U1, Bind(func(r *record.FAR) *uint8 { return &r.StdfVer })),
		}},
		{Code: record.TypeATR, Name: "ATR", New: func() record.Record { return &record.ATR{} }, Fields: []Field{
			F(1, "MOD_TIM", Time, Bind(func(r *record.ATR) *time.Time { return &r.ModTim })),
			F(2, "CMD_LINE", Cn, Bind(func(r *record.ATR) *string { return &r.CmdLine })),
		}},
		{Code: record.TypeMIR, Name: "MIR", New: func() record.Record { return &record.MIR{} }, Fields: mirFields()},
		{Code: record.TypeMRR, Name: "MRR", New: func() record.Record { return &record.MRR{} }, Fields: []Field{
			F(1, "FINISH_T", Time, Bind(func(r *record.MRR) *time.Time { return &r.FinishT })),
			F(2, "DISP_COD", C1, Bind(func(r *record.MRR) *record.Char { return &r.DispCod })),
			F(3, "USR_DESC", Cn, Bind(func(r *record.MRR) *string { return &r.UsrDesc })),
			F(4, "EXC_DESC", Cn, Bind(func(r *record.MRR) *string { return &r.ExcDesc })),
		}},
		{Code: record.TypePCR, Name: "PCR", New: func() record.Record { return &record.PCR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.PCR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.PCR) *uint8 { return &r.SiteNum })),
			F(3, "PART_CNT", U4, Bind(func(r *record.PCR) *uint32 { return &r.PartCnt })),
			F(4, "RTST_CNT", U4, Bind(func(r *record.PCR) *uint32 { return &r.RtstCnt })),
			F(5, "ABRT_CNT", U4, Bind(func(r *record.PCR) *uint32 { return &r.AbrtCnt })),
			F(6, "GOOD_CNT", U4, Bind(func(r *record.PCR) *uint32 { return &r.GoodCnt })),
			F(7, "FUNC_CNT", U4, Bind(func(r *record.PCR) *uint32 { return &r.FuncCnt })),
		}},
		{Code: record.TypeHBR, Name: "HBR", New: func() record.Record { return &record.HBR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.HBR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.HBR) *uint8 { return &r.SiteNum })),
			F(3, "HBIN_NUM", U2, Bind(func(r *record.HBR) *uint16 { return &r.HbinNum })),
			F(4, "HBIN_CNT", U4, Bind(func(r *record.HBR) *uint32 { return &r.HbinCnt })),
			F(5, "HBIN_PF", C1, Bind(func(r *record.HBR) *record.Char { return &r.HbinPf })),
			F(6, "HBIN_NAM", Cn, Bind(func(r *record.HBR) *string { return &r.HbinNam })),
		}},
		{Code: record.TypeSBR, Name: "SBR", New: func() record.Record { return &record.SBR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.SBR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.SBR) *uint8 { return &r.SiteNum })),
			F(3, "SBIN_NUM", U2, Bind(func(r *record.SBR) *uint16 { return &r.SbinNum })),
			F(4, "SBIN_CNT", U4, Bind(func(r *record.SBR) *uint32 { return &r.SbinCnt })),
			F(5, "SBIN_PF", C1, Bind(func(r *record.SBR) *record.Char { return &r.SbinPf })),
			F(6, "SBIN_NAM", Cn, Bind(func(r *record.SBR) *string { return &r.SbinNam })),
		}},
		{Code: record.TypePMR, Name: "PMR", New: func() record.Record { return &record.PMR{} }, Fields: []Field{
			F(1, "PMR_INDX", U2, Bind(func(r *record.PMR) *uint16 { return &r.PmrIndx })),
			F(2, "CHAN_TYP", U2, Bind(func(r *record.PMR) *uint16 { return &r.ChanTyp })),
			F(3, "CHAN_NAM", Cn, Bind(func(r *record.PMR) *string { return &r.ChanNam })),
			F(4, "PHY_NAM", Cn, Bind(func(r *record.PMR) *string { return &r.PhyNam })),
			F(5, "LOG_NAM", Cn, Bind(func(r *record.PMR) *string { return &r.LogNam })),
			F(6, "HEAD_NUM", U1, Bind(func(r *record.PMR) *uint8 { return &r.HeadNum })),
			F(7, "SITE_NUM", U1, Bind(func(r *record.PMR) *uint8 { return &r.SiteNum })),
		}},
		{Code: record.TypePGR, Name: "PGR", New: func() record.Record { return &record.PGR{} }, Fields: []Field{
			F(1, "GRP_INDX", U2, Bind(func(r *record.PGR) *uint16 { return &r.GrpIndx })),
			F(2, "GRP_NAM", Cn, Bind(func(r *record.PGR) *string { return &r.GrpNam })),
			F(3, "INDX_CNT", U2, Bind(func(r *record.PGR) *uint16 { return &r.IndxCnt })),
			F(4, "PMR_INDX", U2, Bind(func(r *record.PGR) *[]uint16 { return &r.PmrIndx })).CountedBy("INDX_CNT"),
		}},
		{Code: record.TypePLR, Name: "PLR", New: func() record.Record { return &record.PLR{} }, Fields: []Field{
			F(1, "GRP_CNT", U2, Bind(func(r *record.PLR) *uint16 { return &r.GrpCnt })),
			F(2, "GRP_INDX", U2, Bind(func(r *record.PLR) *[]uint16 { return &r.GrpIndx })).CountedBy("GRP_CNT"),
			F(3, "GRP_MODE", U2, Bind(func(r *record.PLR) *[]uint16 { return &r.GrpMode })).CountedBy("GRP_CNT"),
			F(4, "GRP_RADX", U1, Bind(func(r *record.PLR) *[]uint8 { return &r.GrpRadx })).CountedBy("GRP_CNT"),
			F(5, "PGM_CHAR", Cn, Bind(func(r *record.PLR) *[]string { return &r.PgmChar })).CountedBy("GRP_CNT"),
			F(6, "RTN_CHAR", Cn, Bind(func(r *record.PLR) *[]string { return &r.RtnChar })).CountedBy("GRP_CNT"),
			F(7, "PGM_CHAL", Cn, Bind(func(r *record.PLR) *[]string { return &r.PgmChal })).CountedBy("GRP_CNT"),
			F(8, "RTN_CHAL", Cn, Bind(func(r *record.PLR) *[]string { return &r.RtnChal })).CountedBy("GRP_CNT"),
		}},
		{Code: record.TypeRDR, Name: "RDR", New: func() record.Record { return &record.RDR{} }, Fields: []Field{
			F(1, "NUM_BINS", U2, Bind(func(r *record.RDR) *uint16 { return &r.NumBins })),
			F(2, "RTST_BIN", U2, Bind(func(r *record.RDR) *[]uint16 { return &r.RtstBin })).CountedBy("NUM_BINS"),
		}},
		{Code: record.TypeSDR, Name: "SDR", New: func() record.Record { return &record.SDR{} }, Fields: sdrFields()},
		{Code: record.TypeWIR, Name: "WIR", New: func() record.Record { return &record.WIR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.WIR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_GRP", U1, Bind(func(r *record.WIR) *uint8 { return &r.SiteGrp })),
			F(3, "START_T", Time, Bind(func(r *record.WIR) *time.Time { return &r.StartT })),
			F(4, "WAFER_ID", Cn, Bind(func(r *record.WIR) *string { return &r.WaferID })),
		}},
		{Code: record.TypeWRR, Name: "WRR", New: func() record.Record { return &record.WRR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.WRR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_GRP", U1, Bind(func(r *record.WRR) *uint8 { return &r.SiteGrp })),
			F(3, "FINISH_T", Time, Bind(func(r *record.WRR) *time.Time { return &r.FinishT })),
			F(4, "PART_CNT", U4, Bind(func(r *record.WRR) *uint32 { return &r.PartCnt })),
			F(5, "RTST_CNT", U4, Bind(func(r *record.WRR) *uint32 { return &r.RtstCnt })),
			F(6, "ABRT_CNT", U4, Bind(func(r *record.WRR) *uint32 { return &r.AbrtCnt })),
			F(7, "GOOD_CNT", U4, Bind(func(r *record.WRR) *uint32 { return &r.GoodCnt })),
			F(8, "FUNC_CNT", U4, Bind(func(r *record.WRR) *uint32 { return &r.FuncCnt })),
			F(9, "WAFER_ID", Cn, Bind(func(r *record.WRR) *string { return &r.WaferID })),
			F(10, "FABWF_ID", Cn, Bind(func(r *record.WRR) *string { return &r.FabwfID })),
			F(11, "FRAME_ID", Cn, Bind(func(r *record.WRR) *string { return &r.FrameID })),
			F(12, "MASK_ID", Cn, Bind(func(r *record.WRR) *string { return &r.MaskID })),
			F(13, "USR_DESC", Cn, Bind(func(r *record.WRR) *string { return &r.UsrDesc })),
			F(14, "EXC_DESC", Cn, Bind(func(r *record.WRR) *string { return &r.ExcDesc })),
		}},
		{Code: record.TypeWCR, Name: "WCR", New: func() record.Record { return &record.WCR{} }, Fields: []Field{
			F(1, "WAFR_SIZ", R4, Bind(func(r *record.WCR) *float32 { return &r.WafrSiz })),
			F(2, "DIE_HT", R4, Bind(func(r *record.WCR) *float32 { return &r.DieHt })),
			F(3, "DIE_WID", R4, Bind(func(r *record.WCR) *float32 { return &r.DieWid })),
			F(4, "WF_UNITS", U1, Bind(func(r *record.WCR) *uint8 { return &r.WfUnits })),
			F(5, "WF_FLAT", C1, Bind(func(r *record.WCR) *record.Char { return &r.WfFlat })),
			F(6, "CENTER_X", I2, Bind(func(r *record.WCR) *int16 { return &r.CenterX })),
			F(7, "CENTER_Y", I2, Bind(func(r *record.WCR) *int16 { return &r.CenterY })),
			F(8, "POS_X", C1, Bind(func(r *record.WCR) *record.Char { return &r.PosX })),
			F(9, "POS_Y", C1, Bind(func(r *record.WCR) *record.Char { return &r.PosY })),
		}},
		{Code: record.TypePIR, Name: "PIR", New: func() record.Record { return &record.PIR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.PIR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.PIR) *uint8 { return &r.SiteNum })),
		}},
		{Code: record.TypePRR, Name: "PRR", New: func() record.Record { return &record.PRR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.PRR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.PRR) *uint8 { return &r.SiteNum })),
			F(3, "PART_FLG", B1, Bind(func(r *record.PRR) *uint8 { return &r.PartFlg })),
			F(4, "NUM_TEST", U2, Bind(func(r *record.PRR) *uint16 { return &r.NumTest })),
			F(5, "HARD_BIN", U2, Bind(func(r *record.PRR) *uint16 { return &r.HardBin })),
			F(6, "SOFT_BIN", U2, Bind(func(r *record.PRR) *uint16 { return &r.SoftBin })),
			F(7, "X_COORD", I2, Bind(func(r *record.PRR) *int16 { return &r.XCoord })),
			F(8, "Y_COORD", I2, Bind(func(r *record.PRR) *int16 { return &r.YCoord })),
			F(9, "TEST_T", U4, Bind(func(r *record.PRR) *uint32 { return &r.TestT })),
			F(10, "PART_ID", Cn, Bind(func(r *record.PRR) *string { return &r.PartID })),
			F(11, "PART_TXT", Cn, Bind(func(r *record.PRR) *string { return &r.PartTxt })),
			F(12, "PART_FIX", Bn, Bind(func(r *record.PRR) *[]byte { return &r.PartFix })),
		}},
		{Code: record.TypeTSR, Name: "TSR", New: func() record.Record { return &record.TSR{} }, Fields: []Field{
			F(1, "HEAD_NUM", U1, Bind(func(r *record.TSR) *uint8 { return &r.HeadNum })),
			F(2, "SITE_NUM", U1, Bind(func(r *record.TSR) *uint8 { return &r.SiteNum })),
			F(3, "TEST_TYP", C1, Bind(func(r *record.TSR) *record.Char { return &r.TestTyp })),
			F(4, "TEST_NUM", U4, Bind(func(r *record.TSR) *uint32 { return &r.TestNum })),
			F(5, "EXEC_CNT", U4, Bind(func(r *record.TSR) *uint32 { return &r.ExecCnt })),
			F(6, "FAIL_CNT", U4, Bind(func(r *record.TSR) *uint32 { return &r.FailCnt })),
			F(7, "ALRM_CNT", U4, Bind(func(r *record.TSR) *uint32 { return &r.AlrmCnt })),
			F(8, "TEST_NAM", Cn, Bind(func(r *record.TSR) *string { return &r.TestNam })),
			F(9, "SEQ_NAME", Cn, Bind(func(r *record.TSR) *string { return &r.SeqName })),
			F(10, "TEST_LBL", Cn, Bind(func(r *record.TSR) *string { return &r.TestLbl })),
			F(11, "OPT_FLAG", B1, Bind(func(r *record.TSR) *uint8 { return &r.OptFlag })),
			F(12, "TEST_TIM", R4, Bind(func(r *record.TSR) *float32 { return &r.TestTim })),
			F(13, "TEST_MIN", R4, Bind(func(r *record.TSR) *float32 { return &r.TestMin })),
			F(14, "TEST_MAX", R4, Bind(func(r *record.TSR) *float32 { return &r.TestMax })),
			F(15, "TST_SUMS", R4, Bind(func(r *record.TSR) *float32 { return &r.TstSums })),
			F(16, "TST_SQRS", R4, Bind(func(r *record.TSR) *float32 { return &r.TstSqrs })),
		}},
		{Code: record.TypePTR, Name: "PTR", New: func() record.Record { return &record.PTR{} }, Fields: ptrFields()},
		{Code: record.TypeMPR, Name: "MPR", New: func() record.Record { return &record.MPR{} }, Fields: mprFields()},
		{Code: record.TypeFTR, Name: "FTR", New: func() record.Record { return &record.FTR{} }, Fields: ftrFields()},
		{Code: record.TypeBPS, Name: "BPS", New: func() record.Record { return &record.BPS{} }, Fields: []Field{
			F(1, "SEQ_NAME", Cn, Bind(func(r *record.BPS) *string { return &r.SeqName })),
		}},
		{Code: record.TypeEPS, Name: "EPS", New: func() record.Record { return &record.EPS{} }},
		{Code: record.TypeGDR, Name: "GDR", New: func() record.Record { return &record.GDR{} }, Generic: true},
		{Code: record.TypeDTR, Name: "DTR", New: func() record.Record { return &record.DTR{} }, Fields: []Field{
			F(1, "TEXT_DAT", Cn, Bind(func(r *record.DTR) *string { return &r.TextDat })),
		}},
	}
}

func mirFields() []Field {
	str := func(order int, name string, get func(*record.MIR) *string) Field {
		return F(order, name, Cn, Bind(get))
	}
	return []Field{
		F(1, "SETUP_T", Time, Bind(func(r *record.MIR) *time.Time { return &r.SetupT })),
		F(2, "START_T", Time, Bind(func(r *record.MIR) *time.Time { return &r.StartT })),
		F(3, "STAT_NUM", U1, Bind(func(r *record.MIR) *uint8 { return &r.StatNum })),
		F(4, "MODE_COD", C1, Bind(func(r *record.MIR) *record.Char { return &r.ModeCod })),
		F(5, "RTST_COD", C1, Bind(func(r *record.MIR) *record.Char { return &r.RtstCod })),
		F(6, "PROT_COD", C1, Bind(func(r *record.MIR) *record.Char { return &r.ProtCod })),
		F(7, "BURN_TIM", U2, Bind(func(r *record.MIR) *uint16 { return &r.BurnTim })),
		F(8, "CMOD_COD", C1, Bind(func(r *record.MIR) *record.Char { return &r.CmodCod })),
		str(9, "LOT_ID", func(r *record.MIR) *string { return &r.LotID }),
		str(10, "PART_TYP", func(r *record.MIR) *string { return &r.PartTyp }),
		str(11, "NODE_NAM", func(r *record.MIR) *string { return &r.NodeNam }),
		str(12, "TSTR_TYP", func(r *record.MIR) *string { return &r.TstrTyp }),
		str(13, "JOB_NAM", func(r *record.MIR) *string { return &r.JobNam }),
		str(14, "JOB_REV", func(r *record.MIR) *string { return &r.JobRev }),
		str(15, "SBLOT_ID", func(r *record.MIR) *string { return &r.SblotID }),
		str(16, "OPER_NAM", func(r *record.MIR) *string { return &r.OperNam }),
		str(17, "EXEC_TYP", func(r *record.MIR) *string { return &r.ExecTyp }),
		str(18, "EXEC_VER", func(r *record.MIR) *string { return &r.ExecVer }),
		str(19, "TEST_COD", func(r *record.MIR) *string { return &r.TestCod }),
		str(20, "TST_TEMP", func(r *record.MIR) *string { return &r.TstTemp }),
		str(21, "USER_TXT", func(r *record.MIR) *string { return &r.UserTxt }),
		str(22, "AUX_FILE", func(r *record.MIR) *string { return &r.AuxFile }),
		str(23, "PKG_TYP", func(r *record.MIR) *string { return &r.PkgTyp }),
		str(24, "FAMLY_ID", func(r *record.MIR) *string { return &r.FamlyID }),
		str(25, "DATE_COD", func(r *record.MIR) *string { return &r.DateCod }),
		str(26, "FACIL_ID", func(r *record.MIR) *string { return &r.FacilID }),
		str(27, "FLOOR_ID", func(r *record.MIR) *string { return &r.FloorID }),
		str(28, "PROC_ID", func(r *record.MIR) *string { return &r.ProcID }),
		str(29, "OPER_FRQ", func(r *record.MIR) *string { return &r.OperFrq }),
		str(30, "SPEC_NAM", func(r *record.MIR) *string { return &r.SpecNam }),
		str(31, "SPEC_VER", func(r *record.MIR) *string { return &r.SpecVer }),
		str(32, "FLOW_ID", func(r *record.MIR) *string { return &r.FlowID }),
		str(33, "SETUP_ID", func(r *record.MIR) *string { return &r.SetupID }),
		str(34, "DSGN_REV", func(r *record.MIR) *string { return &r.DsgnRev }),
		str(35, "ENG_ID", func(r *record.MIR) *string { return &r.EngID }),
		str(36, "ROM_COD", func(r *record.MIR) *string { return &r.RomCod }),
		str(37, "SERL_NUM", func(r *record.MIR) *string { return &r.SerlNum }),
		str(38, "SUPR_NAM", func(r *record.MIR) *string { return &r.SuprNam }),
	}
}

func sdrFields() []Field {
	str := func(order int, name string, get func(*record.SDR) *string) Field {
		return F(order, name, Cn, Bind(get))
	}
	return []Field{
		F(1, "HEAD_NUM", U1, Bind(func(r *record.SDR) *uint8 { return &r.HeadNum })),
		F(2, "SITE_GRP", U1, Bind(func(r *record.SDR) *uint8 { return &r.SiteGrp })),
		F(3, "SITE_CNT", U1, Bind(func(r *record.SDR) *uint8 { return &r.SiteCnt })),
		F(4, "SITE_NUM", U1, Bind(func(r *record.SDR) *[]uint8 { return &r.SiteNum })).CountedBy("SITE_CNT"),
		str(5, "HAND_TYP", func(r *record.SDR) *string { return &r.HandTyp }),
		str(6, "HAND_ID", func(r *record.SDR) *string { return &r.HandID }),
		str(7, "CARD_TYP", func(r *record.SDR) *string { return &r.CardTyp }),
		str(8, "CARD_ID", func(r *record.SDR) *string { return &r.CardID }),
		str(9, "LOAD_TYP", func(r *record.SDR) *string { return &r.LoadTyp }),
		str(10, "LOAD_ID", func(r *record.SDR) *string { return &r.LoadID }),
		str(11, "DIB_TYP", func(r *record.SDR) *string { return &r.DibTyp }),
		str(12, "DIB_ID", func(r *record.SDR) *string { return &r.DibID }),
		str(13, "CABL_TYP", func(r *record.SDR) *string { return &r.CablTyp }),
		str(14, "CABL_ID", func(r *record.SDR) *string { return &r.CablID }),
		str(15, "CONT_TYP", func(r *record.SDR) *string { return &r.ContTyp }),
		str(16, "CONT_ID", func(r *record.SDR) *string { return &r.ContID }),
		str(17, "LASR_TYP", func(r *record.SDR) *string { return &r.LasrTyp }),
		str(18, "LASR_ID", func(r *record.SDR) *string { return &r.LasrID }),
		str(19, "EXTR_TYP", func(r *record.SDR) *string { return &r.ExtrTyp }),
		str(20, "EXTR_ID", func(r *record.SDR) *string { return &r.ExtrID }),
	}
}

func ptrFields() []Field {
	return []Field{
		F(1, "TEST_NUM", U4, Bind(func(r *record.PTR) *uint32 { return &r.TestNum })),
		F(2, "HEAD_NUM", U1, Bind(func(r *record.PTR) *uint8 { return &r.HeadNum })),
		F(3, "SITE_NUM", U1, Bind(func(r *record.PTR) *uint8 { return &r.SiteNum })),
		F(4, "TEST_FLG", B1, Bind(func(r *record.PTR) *uint8 { return &r.TestFlg })),
		F(5, "PARM_FLG", B1, Bind(func(r *record.PTR) *uint8 { return &r.ParmFlg })),
		F(6, "RESULT", R4, Bind(func(r *record.PTR) *float32 { return &r.Result })),
		F(7, "TEST_TXT", Cn, Bind(func(r *record.PTR) *string { return &r.TestTxt })),
		F(8, "ALARM_ID", Cn, Bind(func(r *record.PTR) *string { return &r.AlarmID })),
		F(9, "OPT_FLAG", B1, Bind(func(r *record.PTR) *uint8 { return &r.OptFlag })),
		F(10, "RES_SCAL", I1, Bind(func(r *record.PTR) *int8 { return &r.ResScal })),
		F(11, "LLM_SCAL", I1, Bind(func(r *record.PTR) *int8 { return &r.LlmScal })),
		F(12, "HLM_SCAL", I1, Bind(func(r *record.PTR) *int8 { return &r.HlmScal })),
		F(13, "LO_LIMIT", R4, Bind(func(r *record.PTR) *float32 { return &r.LoLimit })),
		F(14, "HI_LIMIT", R4, Bind(func(r *record.PTR) *float32 { return &r.HiLimit })),
		F(15, "UNITS", Cn, Bind(func(r *record.PTR) *string { return &r.Units })),
		F(16, "C_RESFMT", Cn, Bind(func(r *record.PTR) *string { return &r.CResfmt })),
		F(17, "C_LLMFMT", Cn, Bind(func(r *record.PTR) *string { return &r.CLlmfmt })),
		F(18, "C_HLMFMT", Cn, Bind(func(r *record.PTR) *string { return &r.CHlmfmt })),
		F(19, "LO_SPEC", R4, Bind(func(r *record.PTR) *float32 { return &r.LoSpec })),
		F(20, "HI_SPEC", R4, Bind(func(r *record.PTR) *float32 { return &r.HiSpec })),
	}
}

func mprFields() []Field {
	return []Field{
		F(1, "TEST_NUM", U4, Bind(func(r *record.MPR) *uint32 { return &r.TestNum })),
		F(2, "HEAD_NUM", U1, Bind(func(r *record.MPR) *uint8 { return &r.HeadNum })),
		F(3, "SITE_NUM", U1, Bind(func(r *record.MPR) *uint8 { return &r.SiteNum })),
		F(4, "TEST_FLG", B1, Bind(func(r *record.MPR) *uint8 { return &r.TestFlg })),
		F(5, "PARM_FLG", B1, Bind(func(r *record.MPR) *uint8 { return &r.ParmFlg })),
		F(6, "RTN_ICNT", U2, Bind(func(r *record.MPR) *uint16 { return &r.RtnIcnt })),
		F(7, "RSLT_CNT", U2, Bind(func(r *record.MPR) *uint16 { return &r.RsltCnt })),
		F(8, "RTN_STAT", N1, Bind(func(r *record.MPR) *[]uint8 { return &r.RtnStat })).CountedBy("RTN_ICNT"),
		F(9, "RTN_RSLT", R4, Bind(func(r *record.MPR) *[]float32 { return &r.RtnRslt })).CountedBy("RSLT_CNT"),
		F(10, "TEST_TXT", Cn, Bind(func(r *record.MPR) *string { return &r.TestTxt })),
		F(11, "ALARM_ID", Cn, Bind(func(r *record.MPR) *string { return &r.AlarmID })),
		F(12, "OPT_FLAG", B1, Bind(func(r *record.MPR) *uint8 { return &r.OptFlag })),
		F(13, "RES_SCAL", I1, Bind(func(r *record.MPR) *int8 { return &r.ResScal })),
		F(14, "LLM_SCAL", I1, Bind(func(r *record.MPR) *int8 { return &r.LlmScal })),
		F(15, "HLM_SCAL", I1, Bind(func(r *record.MPR) *int8 { return &r.HlmScal })),
		F(16, "LO_LIMIT", R4, Bind(func(r *record.MPR) *float32 { return &r.LoLimit })),
		F(17, "HI_LIMIT", R4, Bind(func(r *record.MPR) *float32 { return &r.HiLimit })),
		F(18, "START_IN", R4, Bind(func(r *record.MPR) *float32 { return &r.StartIn })),
		F(19, "INCR_IN", R4, Bind(func(r *record.MPR) *float32 { return &r.IncrIn })),
		F(20, "RTN_INDX", U2, Bind(func(r *record.MPR) *[]uint16 { return &r.RtnIndx })).CountedBy("RTN_ICNT"),
		F(21, "UNITS", Cn, Bind(func(r *record.MPR) *string { return &r.Units })),
		F(22, "UNITS_IN", Cn, Bind(func(r *record.MPR) *string { return &r.UnitsIn })),
		F(23, "C_RESFMT", Cn, Bind(func(r *record.MPR) *string { return &r.CResfmt })),
		F(24, "C_LLMFMT", Cn, Bind(func(r *record.MPR) *string { return &r.CLlmfmt })),
		F(25, "C_HLMFMT", Cn, Bind(func(r *record.MPR) *string { return &r.CHlmfmt })),
		F(26, "LO_SPEC", R4, Bind(func(r *record.MPR) *float32 { return &r.LoSpec })),
		F(27, "HI_SPEC", R4, Bind(func(r *record.MPR) *float32 { return &r.HiSpec })),
	}
}

func ftrFields() []Field {
	return []Field{
		F(1, "TEST_NUM", U4, Bind(func(r *record.FTR) *uint32 { return &r.TestNum })),
		F(2, "HEAD_NUM", U1, Bind(func(r *record.FTR) *uint8 { return &r.HeadNum })),
		F(3, "SITE_NUM", U1, Bind(func(r *record.FTR) *uint8 { return &r.SiteNum })),
		F(4, "TEST_FLG", B1, Bind(func(r *record.FTR) *uint8 { return &r.TestFlg })),
		F(5, "OPT_FLAG", B1, Bind(func(r *record.FTR) *uint8 { return &r.OptFlag })),
		F(6, "CYCL_CNT", U4, Bind(func(r *record.FTR) *uint32 { return &r.CyclCnt })),
		F(7, "REL_VADR", U4, Bind(func(r *record.FTR) *uint32 { return &r.RelVadr })),
		F(8, "REPT_CNT", U4, Bind(func(r *record.FTR) *uint32 { return &r.ReptCnt })),
		F(9, "NUM_FAIL", U4, Bind(func(r *record.FTR) *uint32 { return &r.NumFail })),
		F(10, "XFAIL_AD", I4, Bind(func(r *record.FTR) *int32 { return &r.XfailAd })),
		F(11, "YFAIL_AD", I4, Bind(func(r *record.FTR) *int32 { return &r.YfailAd })),
		F(12, "VECT_OFF", I2, Bind(func(r *record.FTR) *int16 { return &r.VectOff })),
		F(13, "RTN_ICNT", U2, Bind(func(r *record.FTR) *uint16 { return &r.RtnIcnt })),
		F(14, "PGM_ICNT", U2, Bind(func(r *record.FTR) *uint16 { return &r.PgmIcnt })),
		F(15, "RTN_INDX", U2, Bind(func(r *record.FTR) *[]uint16 { return &r.RtnIndx })).CountedBy("RTN_ICNT"),
		F(16, "RTN_STAT", N1, Bind(func(r *record.FTR) *[]uint8 { return &r.RtnStat })).CountedBy("RTN_ICNT"),
		F(17, "PGM_INDX", U2, Bind(func(r *record.FTR) *[]uint16 { return &r.PgmIndx })).CountedBy("PGM_ICNT"),
		F(18, "PGM_STAT", N1, Bind(func(r *record.FTR) *[]uint8 { return &r.PgmStat })).CountedBy("PGM_ICNT"),
		F(19, "FAIL_PIN", Dn, Bind(func(r *record.FTR) *record.BitField { return &r.FailPin })),
		F(20, "VECT_NAM", Cn, Bind(func(r *record.FTR) *string { return &r.VectNam })),
		F(21, "TIME_SET", Cn, Bind(func(r *record.FTR) *string { return &r.TimeSet })),
		F(22, "OP_CODE", Cn, Bind(func(r *record.FTR) *string { return &r.OpCode })),
		F(23, "TEST_TXT", Cn, Bind(func(r *record.FTR) *string { return &r.TestTxt })),
		F(24, "ALARM_ID", Cn, Bind(func(r *record.FTR) *string { return &r.AlarmID })),
		F(25, "PROG_TXT", Cn, Bind(func(r *record.FTR) *string { return &r.ProgTxt })),
		F(26, "RSLT_TXT", Cn, Bind(func(r *record.FTR) *string { return &r.RsltTxt })),
		F(27, "PATG_NUM", U1, Bind(func(r *record.FTR) *uint8 { return &r.PatgNum })),
		F(28, "SPIN_MAP", Dn, Bind(func(r *record.FTR) *record.BitField { return &r.SpinMap })),
	}
}
